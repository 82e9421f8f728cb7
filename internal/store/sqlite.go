package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/wcpay/gtm-agent/internal/model"
)

// SQLiteStore implements Store on a local database file. It covers the
// single-operator setup where running Postgres is not worth the trouble.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite database at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}

	// WAL keeps readers unblocked while the enricher writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := database.Exec(p); err != nil {
			database.Close()
			return nil, eris.Wrapf(err, "sqlite: %s", p)
		}
	}

	return &SQLiteStore{db: database}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id                         TEXT PRIMARY KEY,
	company                    TEXT NOT NULL,
	company_website            TEXT,
	category                   TEXT,
	industry                   TEXT,
	company_size_employees     TEXT,
	company_size_revenue       TEXT,
	contact_name               TEXT,
	contact_role               TEXT,
	contact_email              TEXT,
	contact_email_inferred     INTEGER NOT NULL DEFAULT 0,
	contact_email_verified     INTEGER NOT NULL DEFAULT 0,
	contact_linkedin           TEXT,
	secondary_contact_name     TEXT,
	secondary_contact_email    TEXT,
	secondary_contact_linkedin TEXT,
	lead_source                TEXT,
	lead_status                TEXT NOT NULL DEFAULT 'New',
	lead_priority              TEXT,
	key_vp                     TEXT,
	strategic_priorities       TEXT,
	company_description        TEXT,
	value_prop                 TEXT,
	news_sources               TEXT,
	created_at                 TIMESTAMP NOT NULL,
	updated_at                 TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id                  TEXT PRIMARY KEY,
	lead_id             TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	platform            TEXT NOT NULL,
	subject             TEXT,
	body                TEXT NOT NULL,
	version             INTEGER NOT NULL DEFAULT 1,
	sent_at             TIMESTAMP,
	follow_up_1_due     TIMESTAMP,
	follow_up_2_due     TIMESTAMP,
	follow_up_1_body    TEXT,
	follow_up_2_body    TEXT,
	follow_up_1_sent_at TIMESTAMP,
	follow_up_2_sent_at TIMESTAMP,
	created_at          TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS outreach_log (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
	message_id TEXT,
	action     TEXT NOT NULL,
	notes      TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(lead_status);
CREATE INDEX IF NOT EXISTS idx_leads_category ON leads(category);
CREATE INDEX IF NOT EXISTS idx_messages_lead_id ON messages(lead_id);
CREATE INDEX IF NOT EXISTS idx_outreach_log_lead_id ON outreach_log(lead_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sqliteLeadArgs(l *model.Lead) ([]any, error) {
	spJSON, err := marshalPriorities(l.StrategicPriorities)
	if err != nil {
		return nil, err
	}
	nsJSON, err := marshalNewsSources(l.NewsSources)
	if err != nil {
		return nil, err
	}
	var sp, ns any
	if b, ok := spJSON.([]byte); ok {
		sp = string(b)
	}
	if b, ok := nsJSON.([]byte); ok {
		ns = string(b)
	}
	return []any{
		l.ID, l.Company, nullStr(l.CompanyWebsite), nullStr(l.Category), nullStr(l.Industry),
		nullStr(l.SizeEmployees), nullStr(l.SizeRevenue),
		nullStr(l.ContactName), nullStr(l.ContactRole), nullStr(l.ContactEmail), l.EmailInferred, l.EmailVerified, nullStr(l.ContactLinkedIn),
		nullStr(l.SecondaryName), nullStr(l.SecondaryEmail), nullStr(l.SecondaryLinkedIn),
		nullStr(string(l.Source)), string(l.Status), nullStr(string(l.Priority)), nullStr(l.KeyVP), sp,
		nullStr(l.Description), nullStr(l.ValueProp), ns, l.CreatedAt.UTC(), l.UpdatedAt.UTC(),
	}, nil
}

const sqliteLeadInsert = `INSERT INTO leads (` + leadInsertColumnList + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *SQLiteStore) CreateLead(ctx context.Context, lead *model.Lead) (*model.Lead, error) {
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

	args, err := sqliteLeadArgs(&created)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, sqliteLeadInsert, args...); err != nil {
		return nil, eris.Wrap(err, "sqlite: insert lead")
	}
	return &created, nil
}

func (s *SQLiteStore) CreateLeads(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin bulk insert")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteLeadInsert)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare bulk insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	inserted := 0
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
		args, err := sqliteLeadArgs(&l)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: bulk insert lead %s", l.Company)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit bulk insert")
	}
	return inserted, nil
}

func scanSQLiteLead(row leadScanner) (*model.Lead, error) {
	var l model.Lead
	var website, category, industry, sizeEmp, sizeRev sql.NullString
	var cName, cRole, cEmail, cLinkedIn sql.NullString
	var sName, sEmail, sLinkedIn sql.NullString
	var source, priority, keyVP, description, valueProp sql.NullString
	var spJSON, nsJSON sql.NullString

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

	l.CompanyWebsite = website.String
	l.Category = category.String
	l.Industry = industry.String
	l.SizeEmployees = sizeEmp.String
	l.SizeRevenue = sizeRev.String
	l.ContactName = cName.String
	l.ContactRole = cRole.String
	l.ContactEmail = cEmail.String
	l.ContactLinkedIn = cLinkedIn.String
	l.SecondaryName = sName.String
	l.SecondaryEmail = sEmail.String
	l.SecondaryLinkedIn = sLinkedIn.String
	l.Source = model.LeadSource(source.String)
	l.Priority = model.LeadPriority(priority.String)
	l.KeyVP = keyVP.String
	l.Description = description.String
	l.ValueProp = valueProp.String

	if spJSON.Valid && spJSON.String != "" {
		l.StrategicPriorities = &model.StrategicPriorities{}
		if err := json.Unmarshal([]byte(spJSON.String), l.StrategicPriorities); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal strategic priorities")
		}
	}
	if nsJSON.Valid && nsJSON.String != "" {
		if err := json.Unmarshal([]byte(nsJSON.String), &l.NewsSources); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal news sources")
		}
	}
	return &l, nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+leadSelectColumns+` FROM leads WHERE id = ?`, id)
	lead, err := scanSQLiteLead(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "lead %s", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get lead %s", id)
	}
	return lead, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT ` + leadSelectColumns + ` FROM leads WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND lead_status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		query += ` AND (company LIKE ? OR contact_name LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		lead, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, *lead)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	cols := make([]string, 0, len(updates))
	for col := range updates {
		if !ValidLeadColumn(col) {
			return eris.Errorf("sqlite: unknown lead column %q", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, updates[col])
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = ?", strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: update lead rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

func (s *SQLiteStore) DeleteLeads(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM leads WHERE id IN (%s)", placeholders), args...)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete leads")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete leads rows affected")
	}
	return int(n), nil
}

func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error) {
	created := *msg
	if created.ID == "" {
		created.ID = uuid.New().String()
	}
	created.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin insert message")
	}
	defer tx.Rollback()

	var maxVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM messages WHERE lead_id = ?`, created.LeadID,
	).Scan(&maxVersion)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: next message version")
	}
	created.Version = maxVersion + 1

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, lead_id, platform, subject, body, version, follow_up_1_body, follow_up_2_body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.LeadID, string(created.Platform), nullStr(created.Subject), created.Body,
		created.Version, nullStr(created.FollowUp1Body), nullStr(created.FollowUp2Body), created.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert message for lead %s", created.LeadID)
	}
	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit insert message")
	}
	return &created, nil
}

func scanSQLiteMessage(row leadScanner) (*model.Message, error) {
	var m model.Message
	var subject, f1Body, f2Body sql.NullString

	err := row.Scan(
		&m.ID, &m.LeadID, &m.Platform, &subject, &m.Body, &m.Version, &m.SentAt,
		&m.FollowUp1Due, &m.FollowUp2Due, &f1Body, &f2Body,
		&m.FollowUp1SentAt, &m.FollowUp2SentAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Subject = subject.String
	m.FollowUp1Body = f1Body.String
	m.FollowUp2Body = f2Body.String
	return &m, nil
}

func (s *SQLiteStore) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+messageSelectColumns+` FROM messages WHERE id = ?`, id)
	msg, err := scanSQLiteMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "message %s", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get message %s", id)
	}
	return msg, nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, leadID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageSelectColumns+` FROM messages WHERE lead_id = ? ORDER BY version DESC`, leadID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list messages")
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan message")
		}
		msgs = append(msgs, *msg)
	}
	return msgs, eris.Wrap(rows.Err(), "sqlite: list messages iterate")
}

func (s *SQLiteStore) MarkMessageSent(ctx context.Context, id string, sentAt, followUp1Due, followUp2Due time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET sent_at = ?, follow_up_1_due = ?, follow_up_2_due = ?
		 WHERE id = ? AND sent_at IS NULL`,
		sentAt.UTC(), followUp1Due.UTC(), followUp2Due.UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark message sent %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: mark sent rows affected")
	}
	if n == 0 {
		return eris.Errorf("message not found or already sent: %s", id)
	}
	return nil
}

func (s *SQLiteStore) MarkFollowUpSent(ctx context.Context, id string, n int, at time.Time) error {
	var col string
	switch n {
	case 1:
		col = "follow_up_1_sent_at"
	case 2:
		col = "follow_up_2_sent_at"
	default:
		return eris.Errorf("sqlite: invalid follow-up number %d", n)
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE messages SET %s = ? WHERE id = ? AND %s IS NULL`, col, col),
		at.UTC(), id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark follow-up %d sent %s", n, id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: mark follow-up rows affected")
	}
	if affected == 0 {
		return eris.Errorf("message not found or follow-up %d already sent: %s", n, id)
	}
	return nil
}

func (s *SQLiteStore) ListDueFollowUps(ctx context.Context, now time.Time) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+messageSelectColumns+` FROM messages
		 WHERE sent_at IS NOT NULL
		   AND ((follow_up_1_due <= ? AND follow_up_1_sent_at IS NULL)
		     OR (follow_up_2_due <= ? AND follow_up_2_sent_at IS NULL))
		 ORDER BY follow_up_1_due ASC`,
		now.UTC(), now.UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list due follow-ups")
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		msg, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan due follow-up")
		}
		msgs = append(msgs, *msg)
	}
	return msgs, eris.Wrap(rows.Err(), "sqlite: list due follow-ups iterate")
}

func (s *SQLiteStore) AppendLog(ctx context.Context, entry *model.OutreachLog) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outreach_log (id, lead_id, message_id, action, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.LeadID, nullStr(entry.MessageID), string(entry.Action), nullStr(entry.Notes), entry.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: append outreach log")
}

func (s *SQLiteStore) ListLog(ctx context.Context, leadID string) ([]model.OutreachLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, message_id, action, notes, created_at FROM outreach_log
		 WHERE lead_id = ? ORDER BY created_at DESC`, leadID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list outreach log")
	}
	defer rows.Close()

	var entries []model.OutreachLog
	for rows.Next() {
		var e model.OutreachLog
		var messageID, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.LeadID, &messageID, &e.Action, &notes, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan outreach log")
		}
		e.MessageID = messageID.String
		e.Notes = notes.String
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list outreach log iterate")
}
