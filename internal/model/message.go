package model

import "time"

// Platform is the outreach channel a message is drafted for.
type Platform string

const (
	PlatformEmail    Platform = "email"
	PlatformLinkedIn Platform = "linkedin"
)

// Follow-up offsets from the send timestamp.
const (
	FollowUp1Offset = 14 * 24 * time.Hour
	FollowUp2Offset = 21 * 24 * time.Hour
)

// Message is one drafted outreach artifact, versioned per lead.
// Draft fields may be regenerated until SentAt is set; SentAt transitions
// null to non-null exactly once and triggers follow-up scheduling.
type Message struct {
	ID       string   `json:"id"`
	LeadID   string   `json:"lead_id"`
	Platform Platform `json:"platform"`
	Subject  string   `json:"subject,omitempty"`
	Body     string   `json:"body"`
	Version  int      `json:"version"`

	SentAt *time.Time `json:"sent_at,omitempty"`

	FollowUp1Due    *time.Time `json:"follow_up_1_due,omitempty"`
	FollowUp2Due    *time.Time `json:"follow_up_2_due,omitempty"`
	FollowUp1Body   string     `json:"follow_up_1_body,omitempty"`
	FollowUp2Body   string     `json:"follow_up_2_body,omitempty"`
	FollowUp1SentAt *time.Time `json:"follow_up_1_sent_at,omitempty"`
	FollowUp2SentAt *time.Time `json:"follow_up_2_sent_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Sent reports whether the message has gone out.
func (m *Message) Sent() bool {
	return m.SentAt != nil
}
