package outreach

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/model"
)

// FollowUpResult records the outcome of one attempted follow-up send.
type FollowUpResult struct {
	MessageID string `json:"message_id"`
	LeadID    string `json:"lead_id"`
	Number    int    `json:"number"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// ProcessDue sends every follow-up that is due and unsent as of now.
// Per-message failures are recorded and the sweep continues.
func (s *Sender) ProcessDue(ctx context.Context, now time.Time) ([]FollowUpResult, error) {
	due, err := s.store.ListDueFollowUps(ctx, now)
	if err != nil {
		return nil, err
	}

	var results []FollowUpResult
	for i := range due {
		msg := &due[i]
		for _, n := range dueNumbers(msg, now) {
			res := FollowUpResult{MessageID: msg.ID, LeadID: msg.LeadID, Number: n}
			if err := s.sendFollowUp(ctx, msg, n); err != nil {
				res.Error = err.Error()
				zap.L().Warn("follow-up failed",
					zap.String("message_id", msg.ID),
					zap.Int("number", n),
					zap.Error(err),
				)
			} else {
				res.Success = true
			}
			results = append(results, res)
		}
	}

	zap.L().Info("follow-up sweep complete",
		zap.Int("candidates", len(due)),
		zap.Int("attempted", len(results)),
	)
	return results, nil
}

// dueNumbers lists which of the two follow-ups are due and unsent.
func dueNumbers(msg *model.Message, now time.Time) []int {
	var ns []int
	if msg.FollowUp1Due != nil && !msg.FollowUp1Due.After(now) && msg.FollowUp1SentAt == nil {
		ns = append(ns, 1)
	}
	if msg.FollowUp2Due != nil && !msg.FollowUp2Due.After(now) && msg.FollowUp2SentAt == nil {
		ns = append(ns, 2)
	}
	return ns
}

func (s *Sender) sendFollowUp(ctx context.Context, msg *model.Message, n int) error {
	lead, err := s.store.GetLead(ctx, msg.LeadID)
	if err != nil {
		return err
	}
	if lead.ContactEmail == "" {
		return ErrNoEmail
	}

	body := msg.FollowUp1Body
	if n == 2 {
		body = msg.FollowUp2Body
	}
	if body == "" {
		body = fmt.Sprintf("Quick bump on my last note about WalletConnect Pay for %s. Worth a quick chat?", lead.Company)
	}

	subject := "Re: " + msg.Subject
	if msg.Subject == "" {
		subject = fmt.Sprintf("Following up: WalletConnect Pay x %s", lead.Company)
	}

	if err := s.email.Send(ctx, EmailMessage{
		To:      lead.ContactEmail,
		ToName:  lead.ContactName,
		Subject: subject,
		Body:    body,
	}); err != nil {
		return err
	}

	if err := s.store.MarkFollowUpSent(ctx, msg.ID, n, time.Now().UTC()); err != nil {
		return err
	}

	return s.store.AppendLog(ctx, &model.OutreachLog{
		LeadID:    msg.LeadID,
		MessageID: msg.ID,
		Action:    model.ActionFollowUpSent,
		Notes:     fmt.Sprintf("Follow-up %d sent to %s", n, lead.ContactEmail),
	})
}
