package model

import (
	"encoding/json"
	"time"
)

// LeadStatus tracks where a lead sits in the pipeline.
type LeadStatus string

const (
	StatusNew         LeadStatus = "New"
	StatusEnriched    LeadStatus = "Enriched"
	StatusContacted   LeadStatus = "Contacted"
	StatusProposal    LeadStatus = "Proposal"
	StatusNegotiating LeadStatus = "Negotiating"
	StatusWon         LeadStatus = "Won"
	StatusLost        LeadStatus = "Lost"
	StatusChurned     LeadStatus = "Churned"
)

// LeadSource records how a lead entered the pipeline.
type LeadSource string

const (
	SourceInbound  LeadSource = "Inbound"
	SourceOutbound LeadSource = "Outbound"
	SourceReferral LeadSource = "Referral"
	SourceEvent    LeadSource = "Event"
)

// LeadPriority is the qualification tier assigned during enrichment.
type LeadPriority string

const (
	PriorityHigh   LeadPriority = "High"
	PriorityMedium LeadPriority = "Medium"
)

// Lead is one row per target company/contact pair.
type Lead struct {
	ID      string `json:"id"`
	Company string `json:"company"`

	// Firmographics
	CompanyWebsite string `json:"company_website,omitempty"`
	Category       string `json:"category,omitempty"`
	Industry       string `json:"industry,omitempty"`
	SizeEmployees  string `json:"company_size_employees,omitempty"`
	SizeRevenue    string `json:"company_size_revenue,omitempty"`

	// Primary contact
	ContactName     string `json:"contact_name,omitempty"`
	ContactRole     string `json:"contact_role,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ContactLinkedIn string `json:"contact_linkedin,omitempty"`
	// EmailInferred marks a synthesized guess; EmailVerified marks a
	// verification-provider match. Never both true.
	EmailInferred bool `json:"contact_email_inferred"`
	EmailVerified bool `json:"contact_email_verified"`

	// Secondary contact
	SecondaryName     string `json:"secondary_contact_name,omitempty"`
	SecondaryEmail    string `json:"secondary_contact_email,omitempty"`
	SecondaryLinkedIn string `json:"secondary_contact_linkedin,omitempty"`

	// Qualification
	Source              LeadSource           `json:"lead_source,omitempty"`
	Status              LeadStatus           `json:"lead_status"`
	Priority            LeadPriority         `json:"lead_priority,omitempty"`
	KeyVP               string               `json:"key_vp,omitempty"`
	StrategicPriorities *StrategicPriorities `json:"strategic_priorities,omitempty"`

	// Narrative
	Description string       `json:"company_description,omitempty"`
	ValueProp   string       `json:"value_prop,omitempty"`
	NewsSources []NewsSource `json:"news_sources,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewsSource is one article backing the enrichment narrative.
type NewsSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SocialItem is one social-media mention, optionally with its source URL.
type SocialItem struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// StrategicPriorities is the canonical three-bucket priorities object.
type StrategicPriorities struct {
	NewsAndPress   []string     `json:"news_and_press"`
	CompanyContent []string     `json:"company_content"`
	SocialMedia    []SocialItem `json:"social_media"`
}

// IsEmpty reports whether no bucket holds any entry.
func (sp *StrategicPriorities) IsEmpty() bool {
	return sp == nil || (len(sp.NewsAndPress) == 0 && len(sp.CompanyContent) == 0 && len(sp.SocialMedia) == 0)
}

// Equal compares two priorities objects bucket by bucket.
func (sp *StrategicPriorities) Equal(other *StrategicPriorities) bool {
	a, _ := json.Marshal(sp)
	b, _ := json.Marshal(other)
	return string(a) == string(b)
}

// OutreachAction is one entry type in the append-only outreach log.
type OutreachAction string

const (
	ActionSent         OutreachAction = "sent"
	ActionOpened       OutreachAction = "opened"
	ActionReplied      OutreachAction = "replied"
	ActionBounced      OutreachAction = "bounced"
	ActionFollowUpSent OutreachAction = "follow_up_sent"
)

// OutreachLog is one audit-trail entry for a lead.
type OutreachLog struct {
	ID        string         `json:"id"`
	LeadID    string         `json:"lead_id"`
	MessageID string         `json:"message_id,omitempty"`
	Action    OutreachAction `json:"action"`
	Notes     string         `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
