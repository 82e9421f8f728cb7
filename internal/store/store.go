package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/wcpay/gtm-agent/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = eris.New("store: not found")

// LeadFilter specifies criteria for listing leads.
type LeadFilter struct {
	Status   model.LeadStatus `json:"status,omitempty"`
	Category string           `json:"category,omitempty"`
	// Search matches company and contact name, case-insensitive substring.
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for leads, messages and the
// outreach log.
type Store interface {
	// Leads
	CreateLead(ctx context.Context, lead *model.Lead) (*model.Lead, error)
	CreateLeads(ctx context.Context, leads []model.Lead) (int, error)
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)
	// UpdateLead writes the given column values. Unknown columns are
	// rejected; updated_at is always refreshed.
	UpdateLead(ctx context.Context, id string, updates map[string]any) error
	DeleteLeads(ctx context.Context, ids []string) (int, error)

	// Messages
	CreateMessage(ctx context.Context, msg *model.Message) (*model.Message, error)
	GetMessage(ctx context.Context, id string) (*model.Message, error)
	ListMessages(ctx context.Context, leadID string) ([]model.Message, error)
	MarkMessageSent(ctx context.Context, id string, sentAt, followUp1Due, followUp2Due time.Time) error
	MarkFollowUpSent(ctx context.Context, id string, n int, at time.Time) error
	ListDueFollowUps(ctx context.Context, now time.Time) ([]model.Message, error)

	// Outreach log
	AppendLog(ctx context.Context, entry *model.OutreachLog) error
	ListLog(ctx context.Context, leadID string) ([]model.OutreachLog, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// leadColumns is the allowlist of columns UpdateLead may touch.
var leadColumns = map[string]bool{
	"company":                    true,
	"company_website":            true,
	"category":                   true,
	"industry":                   true,
	"company_size_employees":     true,
	"company_size_revenue":       true,
	"contact_name":               true,
	"contact_role":               true,
	"contact_email":              true,
	"contact_email_inferred":     true,
	"contact_email_verified":     true,
	"contact_linkedin":           true,
	"secondary_contact_name":     true,
	"secondary_contact_email":    true,
	"secondary_contact_linkedin": true,
	"lead_source":                true,
	"lead_status":                true,
	"lead_priority":              true,
	"key_vp":                     true,
	"strategic_priorities":       true,
	"company_description":        true,
	"value_prop":                 true,
	"news_sources":               true,
}

// ValidLeadColumn reports whether UpdateLead accepts the column.
func ValidLeadColumn(col string) bool {
	return leadColumns[col]
}
