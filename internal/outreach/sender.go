package outreach

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/internal/store"
)

var (
	// ErrAlreadySent is returned when the message already went out.
	ErrAlreadySent = eris.New("outreach: message already sent")
	// ErrNoEmail is returned when the lead has no contact email.
	ErrNoEmail = eris.New("outreach: lead has no contact email")
	// ErrUnverifiedEmail is returned when the only address on file is a
	// synthesized guess and the caller did not force the send.
	ErrUnverifiedEmail = eris.New("outreach: contact email is inferred and unverified, pass force to send anyway")
)

// Sender delivers drafted messages and schedules their follow-ups.
type Sender struct {
	store store.Store
	email EmailSender
}

// NewSender returns a Sender. A nil email sender falls back to the stub.
func NewSender(st store.Store, email EmailSender) *Sender {
	if email == nil || isNilSendGrid(email) {
		email = StubEmailSender{}
	}
	return &Sender{store: st, email: email}
}

func isNilSendGrid(e EmailSender) bool {
	sg, ok := e.(*SendGridSender)
	return ok && sg == nil
}

// Send delivers the message, stamps sent_at exactly once, schedules the two
// follow-ups and moves the lead to Contacted. force overrides the refusal
// to send to an inferred, unverified address.
func (s *Sender) Send(ctx context.Context, messageID string, force bool) (*model.Message, error) {
	msg, err := s.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Sent() {
		return nil, ErrAlreadySent
	}

	lead, err := s.store.GetLead(ctx, msg.LeadID)
	if err != nil {
		return nil, err
	}
	if lead.ContactEmail == "" {
		return nil, ErrNoEmail
	}
	if lead.EmailInferred && !lead.EmailVerified && !force {
		return nil, ErrUnverifiedEmail
	}

	subject := msg.Subject
	if subject == "" {
		subject = fmt.Sprintf("WalletConnect Pay x %s", lead.Company)
	}

	if err := s.email.Send(ctx, EmailMessage{
		To:      lead.ContactEmail,
		ToName:  lead.ContactName,
		Subject: subject,
		Body:    msg.Body,
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fu1 := now.Add(model.FollowUp1Offset)
	fu2 := now.Add(model.FollowUp2Offset)
	if err := s.store.MarkMessageSent(ctx, messageID, now, fu1, fu2); err != nil {
		return nil, err
	}

	if err := s.store.UpdateLead(ctx, lead.ID, map[string]any{
		"lead_status": string(model.StatusContacted),
	}); err != nil {
		zap.L().Warn("send: lead status update failed", zap.String("lead_id", lead.ID), zap.Error(err))
	}

	if err := s.store.AppendLog(ctx, &model.OutreachLog{
		LeadID:    lead.ID,
		MessageID: messageID,
		Action:    model.ActionSent,
		Notes:     fmt.Sprintf("Sent to %s via %s", lead.ContactEmail, msg.Platform),
	}); err != nil {
		zap.L().Warn("send: log append failed", zap.String("message_id", messageID), zap.Error(err))
	}

	zap.L().Info("message sent",
		zap.String("lead_id", lead.ID),
		zap.String("message_id", messageID),
		zap.Time("follow_up_1_due", fu1),
		zap.Time("follow_up_2_due", fu2),
	)
	return s.store.GetMessage(ctx, messageID)
}
