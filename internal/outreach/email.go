package outreach

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/config"
)

// EmailSender is the outbound delivery interface. Implementations can be
// swapped (SendGrid, SES, SMTP) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one email to deliver.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// SendGridSender delivers email through the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender returns a SendGrid-backed sender, or nil when no API
// key is configured.
func NewSendGridSender(cfg config.SendgridConfig) *SendGridSender {
	if cfg.Key == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.Key),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return eris.New("outreach: sendgrid not configured")
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, msg.Body)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return eris.Wrap(err, "outreach: sendgrid send")
	}
	if resp.StatusCode >= 400 {
		zap.L().Error("sendgrid rejected message",
			zap.Int("status", resp.StatusCode),
			zap.String("to", msg.To),
		)
		return eris.Errorf("outreach: sendgrid returned status %d", resp.StatusCode)
	}

	zap.L().Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

// StubEmailSender logs instead of sending. Used when delivery is disabled.
type StubEmailSender struct{}

func (StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	zap.L().Info("stub sender: would send email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
