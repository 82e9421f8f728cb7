package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/wcpay/gtm-agent/internal/db"
	"github.com/wcpay/gtm-agent/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const leadSelectColumns = `id, company, company_website, category, industry,
	company_size_employees, company_size_revenue,
	contact_name, contact_role, contact_email, contact_email_inferred, contact_email_verified, contact_linkedin,
	secondary_contact_name, secondary_contact_email, secondary_contact_linkedin,
	lead_source, lead_status, lead_priority, key_vp, strategic_priorities,
	company_description, value_prop, news_sources, created_at, updated_at`

const messageSelectColumns = `id, lead_id, platform, subject, body, version, sent_at,
	follow_up_1_due, follow_up_2_due, follow_up_1_body, follow_up_2_body,
	follow_up_1_sent_at, follow_up_2_sent_at, created_at`

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_lead":      `SELECT ` + leadSelectColumns + ` FROM leads WHERE id = $1`,
	"get_message":   `SELECT ` + messageSelectColumns + ` FROM messages WHERE id = $1`,
	"list_messages": `SELECT ` + messageSelectColumns + ` FROM messages WHERE lead_id = $1 ORDER BY version DESC`,
	"append_log":    `INSERT INTO outreach_log (id, lead_id, message_id, action, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., bulk import).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company                    TEXT NOT NULL,
	company_website            TEXT,
	category                   TEXT,
	industry                   TEXT,
	company_size_employees     TEXT,
	company_size_revenue       TEXT,
	contact_name               TEXT,
	contact_role               TEXT,
	contact_email              TEXT,
	contact_email_inferred     BOOLEAN NOT NULL DEFAULT false,
	contact_email_verified     BOOLEAN NOT NULL DEFAULT false,
	contact_linkedin           TEXT,
	secondary_contact_name     TEXT,
	secondary_contact_email    TEXT,
	secondary_contact_linkedin TEXT,
	lead_source                TEXT,
	lead_status                TEXT NOT NULL DEFAULT 'New',
	lead_priority              TEXT,
	key_vp                     TEXT,
	strategic_priorities       JSONB,
	company_description        TEXT,
	value_prop                 TEXT,
	news_sources               JSONB,
	created_at                 TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at                 TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id                  TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id             TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	platform            TEXT NOT NULL,
	subject             TEXT,
	body                TEXT NOT NULL,
	version             INTEGER NOT NULL DEFAULT 1,
	sent_at             TIMESTAMPTZ,
	follow_up_1_due     TIMESTAMPTZ,
	follow_up_2_due     TIMESTAMPTZ,
	follow_up_1_body    TEXT,
	follow_up_2_body    TEXT,
	follow_up_1_sent_at TIMESTAMPTZ,
	follow_up_2_sent_at TIMESTAMPTZ,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outreach_log (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id    TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	message_id TEXT,
	action     TEXT NOT NULL,
	notes      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(lead_status);
CREATE INDEX IF NOT EXISTS idx_leads_category ON leads(category);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_messages_lead_id ON messages(lead_id);
CREATE INDEX IF NOT EXISTS idx_messages_follow_up_1_due ON messages(follow_up_1_due) WHERE sent_at IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_messages_follow_up_2_due ON messages(follow_up_2_due) WHERE sent_at IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_outreach_log_lead_id ON outreach_log(lead_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// nullStr maps empty strings to SQL NULL.
func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func marshalPriorities(sp *model.StrategicPriorities) (any, error) {
	if sp.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(sp)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal strategic priorities")
	}
	return b, nil
}

func marshalNewsSources(ns []model.NewsSource) (any, error) {
	if len(ns) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(ns)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal news sources")
	}
	return b, nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
	created := *lead
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	if created.Status == "" {
		created.Status = model.StatusNew
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	args, err := leadInsertArgs(&created)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx, `INSERT INTO leads (`+leadInsertColumnList+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`,
		args...,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert lead")
	}
	return &created, nil
}

const leadInsertColumnList = `id, company, company_website, category, industry,
	company_size_employees, company_size_revenue,
	contact_name, contact_role, contact_email, contact_email_inferred, contact_email_verified, contact_linkedin,
	secondary_contact_name, secondary_contact_email, secondary_contact_linkedin,
	lead_source, lead_status, lead_priority, key_vp, strategic_priorities,
	company_description, value_prop, news_sources, created_at, updated_at`

func leadInsertArgs(l *model.Lead) ([]any, error) {
	spJSON, err := marshalPriorities(l.StrategicPriorities)
	if err != nil {
		return nil, err
	}
	nsJSON, err := marshalNewsSources(l.NewsSources)
	if err != nil {
		return nil, err
	}
	return []any{
		l.ID, l.Company, nullStr(l.CompanyWebsite), nullStr(l.Category), nullStr(l.Industry),
		nullStr(l.SizeEmployees), nullStr(l.SizeRevenue),
		nullStr(l.ContactName), nullStr(l.ContactRole), nullStr(l.ContactEmail), l.EmailInferred, l.EmailVerified, nullStr(l.ContactLinkedIn),
		nullStr(l.SecondaryName), nullStr(l.SecondaryEmail), nullStr(l.SecondaryLinkedIn),
		nullStr(string(l.Source)), string(l.Status), nullStr(string(l.Priority)), nullStr(l.KeyVP), spJSON,
		nullStr(l.Description), nullStr(l.ValueProp), nsJSON, l.CreatedAt, l.UpdatedAt,
	}, nil
}

func (s *PostgresStore) CreateLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	columns := []string{
		"id", "company", "company_website", "category", "industry",
		"company_size_employees", "company_size_revenue",
		"contact_name", "contact_role", "contact_email", "contact_email_inferred", "contact_email_verified", "contact_linkedin",
		"secondary_contact_name", "secondary_contact_email", "secondary_contact_linkedin",
		"lead_source", "lead_status", "lead_priority", "key_vp", "strategic_priorities",
		"company_description", "value_prop", "news_sources", "created_at", "updated_at",
	}

	rows := make([][]any, 0, len(leads))
	for i := range leads {
		l := leads[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		if l.Status == "" {
			l.Status = model.StatusNew
		}
		l.CreatedAt = now
		l.UpdatedAt = now
		args, err := leadInsertArgs(&l)
		if err != nil {
			return 0, err
		}
		rows = append(rows, args)
	}

	n, err := db.CopyFrom(ctx, s.pool, "leads", columns, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: bulk insert leads")
	}
	return int(n), nil
}

// leadScanner matches both pgx.Row and pgx.Rows.
type leadScanner interface {
	Scan(dest ...any) error
}

func scanLead(row leadScanner) (*model.Lead, error) {
	var l model.Lead
	var website, category, industry, sizeEmp, sizeRev *string
	var cName, cRole, cEmail, cLinkedIn *string
	var sName, sEmail, sLinkedIn *string
	var source, priority, keyVP, description, valueProp *string
	var spJSON, nsJSON []byte

	err := row.Scan(
		&l.ID, &l.Company, &website, &category, &industry,
		&sizeEmp, &sizeRev,
		&cName, &cRole, &cEmail, &l.EmailInferred, &l.EmailVerified, &cLinkedIn,
		&sName, &sEmail, &sLinkedIn,
		&source, &l.Status, &priority, &keyVP, &spJSON,
		&description, &valueProp, &nsJSON, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	l.CompanyWebsite = deref(website)
	l.Category = deref(category)
	l.Industry = deref(industry)
	l.SizeEmployees = deref(sizeEmp)
	l.SizeRevenue = deref(sizeRev)
	l.ContactName = deref(cName)
	l.ContactRole = deref(cRole)
	l.ContactEmail = deref(cEmail)
	l.ContactLinkedIn = deref(cLinkedIn)
	l.SecondaryName = deref(sName)
	l.SecondaryEmail = deref(sEmail)
	l.SecondaryLinkedIn = deref(sLinkedIn)
	l.Source = model.LeadSource(deref(source))
	l.Priority = model.LeadPriority(deref(priority))
	l.KeyVP = deref(keyVP)
	l.Description = deref(description)
	l.ValueProp = deref(valueProp)

	if len(spJSON) > 0 {
		l.StrategicPriorities = &model.StrategicPriorities{}
		if err := json.Unmarshal(spJSON, l.StrategicPriorities); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal strategic priorities")
		}
	}
	if len(nsJSON) > 0 {
		if err := json.Unmarshal(nsJSON, &l.NewsSources); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal news sources")
		}
	}
	return &l, nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+leadSelectColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "lead %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get lead %s", id)
	}
	return lead, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadSelectColumns + ` FROM leads WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND lead_status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(` AND (company ILIKE $%d OR contact_name ILIKE $%d)`, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func (s *PostgresStore) UpdateLead(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	cols := make([]string, 0, len(updates))
	for col := range updates {
		if !ValidLeadColumn(col) {
			return eris.Errorf("postgres: unknown lead column %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := `UPDATE leads SET `
	args := make([]any, 0, len(cols)+2)
	for i, col := range cols {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, updates[col])
	}
	query += fmt.Sprintf(", updated_at = $%d WHERE id = $%d", len(cols)+1, len(cols)+2)
	args = append(args, time.Now().UTC(), id)

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

func (s *PostgresStore) DeleteLeads(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete leads")
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	created := *msg
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	created.CreatedAt = time.Now().UTC()

	// Version is assigned per lead: newest draft wins the highest number.
	err := s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, lead_id, platform, subject, body, version, follow_up_1_body, follow_up_2_body, created_at)
		 VALUES ($1, $2, $3, $4, $5,
		   (SELECT COALESCE(MAX(version), 0) + 1 FROM messages WHERE lead_id = $2),
		   $6, $7, $8)
		 RETURNING version`,
		created.ID, created.LeadID, string(created.Platform), nullStr(created.Subject), created.Body,
		nullStr(created.FollowUp1Body), nullStr(created.FollowUp2Body), created.CreatedAt,
	).Scan(&created.Version)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert message for lead %s", created.LeadID)
	}
	return &created, nil
}

func scanMessage(row leadScanner) (*model.Message, error) {
	var m model.Message
	var subject, f1Body, f2Body *string

	err := row.Scan(
		&m.ID, &m.LeadID, &m.Platform, &subject, &m.Body, &m.Version, &m.SentAt,
		&m.FollowUp1Due, &m.FollowUp2Due, &f1Body, &f2Body,
		&m.FollowUp1SentAt, &m.FollowUp2SentAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if subject != nil {
		m.Subject = *subject
	}
	if f1Body != nil {
		m.FollowUp1Body = *f1Body
	}
	if f2Body != nil {
		m.FollowUp2Body = *f2Body
	}
	return &m, nil
}

func (s *PostgresStore) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+messageSelectColumns+` FROM messages WHERE id = $1`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "message %s", id)
		}
		return nil, eris.Wrapf(err, "postgres: get message %s", id)
	}
	return msg, nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, leadID string) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageSelectColumns+` FROM messages WHERE lead_id = $1 ORDER BY version DESC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list messages")
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan message")
		}
		msgs = append(msgs, *msg)
	}
	return msgs, eris.Wrap(rows.Err(), "postgres: list messages iterate")
}

func (s *PostgresStore) MarkMessageSent(ctx context.Context, id string, sentAt, followUp1Due, followUp2Due time.Time) error {
	// sent_at transitions null to non-null exactly once.
	tag, err := s.pool.Exec(ctx,
		`UPDATE messages SET sent_at = $1, follow_up_1_due = $2, follow_up_2_due = $3
		 WHERE id = $4 AND sent_at IS NULL`,
		sentAt, followUp1Due, followUp2Due, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark message sent %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("message not found or already sent: %s", id)
	}
	return nil
}

func (s *PostgresStore) MarkFollowUpSent(ctx context.Context, id string, n int, at time.Time) error {
	var col string
	switch n {
	case 1:
		col = "follow_up_1_sent_at"
	case 2:
		col = "follow_up_2_sent_at"
	default:
		return eris.Errorf("postgres: invalid follow-up number %d", n)
	}

	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE messages SET %s = $1 WHERE id = $2 AND %s IS NULL`, col, col),
		at, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark follow-up %d sent %s", n, id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("message not found or follow-up %d already sent: %s", n, id)
	}
	return nil
}

func (s *PostgresStore) ListDueFollowUps(ctx context.Context, now time.Time) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+messageSelectColumns+` FROM messages
		 WHERE sent_at IS NOT NULL
		   AND ((follow_up_1_due <= $1 AND follow_up_1_sent_at IS NULL)
		     OR (follow_up_2_due <= $1 AND follow_up_2_sent_at IS NULL))
		 ORDER BY follow_up_1_due ASC`,
		now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list due follow-ups")
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan due follow-up")
		}
		msgs = append(msgs, *msg)
	}
	return msgs, eris.Wrap(rows.Err(), "postgres: list due follow-ups iterate")
}

func (s *PostgresStore) AppendLog(ctx context.Context, entry *model.OutreachLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO outreach_log (id, lead_id, message_id, action, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.LeadID, nullStr(entry.MessageID), string(entry.Action), nullStr(entry.Notes), entry.CreatedAt,
	)
	return eris.Wrap(err, "postgres: append outreach log")
}

func (s *PostgresStore) ListLog(ctx context.Context, leadID string) ([]model.OutreachLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lead_id, message_id, action, notes, created_at FROM outreach_log
		 WHERE lead_id = $1 ORDER BY created_at DESC`,
		leadID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list outreach log")
	}
	defer rows.Close()

	var entries []model.OutreachLog
	for rows.Next() {
		var e model.OutreachLog
		var messageID, notes *string
		if err := rows.Scan(&e.ID, &e.LeadID, &messageID, &e.Action, &notes, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan outreach log")
		}
		if messageID != nil {
			e.MessageID = *messageID
		}
		if notes != nil {
			e.Notes = *notes
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list outreach log iterate")
}
