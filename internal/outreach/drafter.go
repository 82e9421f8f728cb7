// Package outreach drafts and sends cold outreach messages and works the
// follow-up schedule for sent ones.
package outreach

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/config"
	"github.com/wcpay/gtm-agent/internal/decode"
	"github.com/wcpay/gtm-agent/internal/enrich"
	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/internal/store"
	"github.com/wcpay/gtm-agent/pkg/anthropic"
)

// ErrNotEnriched is returned when drafting is attempted before enrichment
// has produced a value proposition for the lead.
var ErrNotEnriched = eris.New("outreach: lead has no value proposition, enrich it first")

// Drafter generates outreach messages for enriched leads.
type Drafter struct {
	store     store.Store
	anthropic anthropic.Client
	cfg       config.AnthropicConfig
}

// NewDrafter returns a Drafter backed by the given store and model client.
func NewDrafter(st store.Store, ai anthropic.Client, cfg config.AnthropicConfig) *Drafter {
	return &Drafter{store: st, anthropic: ai, cfg: cfg}
}

// draftOutput is the JSON shape the drafting call must return.
type draftOutput struct {
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	FollowUp1 string `json:"follow_up_1"`
	FollowUp2 string `json:"follow_up_2"`
}

// Draft generates a new message version for the lead on the given platform.
// The lead must have been enriched; the value proposition anchors the pitch.
func (d *Drafter) Draft(ctx context.Context, leadID string, platform model.Platform) (*model.Message, error) {
	lead, err := d.store.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.ValueProp == "" {
		return nil, ErrNotEnriched
	}
	if platform != model.PlatformEmail && platform != model.PlatformLinkedIn {
		platform = model.PlatformEmail
	}

	log := zap.L().With(zap.String("lead_id", leadID), zap.String("platform", string(platform)))
	log.Info("draft: generating message", zap.String("company", lead.Company))

	resp, err := d.anthropic.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     d.cfg.Model,
		MaxTokens: 1024,
		System:    enrich.SystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildDraftPrompt(lead, platform)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "outreach: draft model call")
	}
	resp.Usage.LogCost(d.cfg.Model, "draft")

	var out draftOutput
	if err := decode.Object(resp.Text, &out); err != nil {
		return nil, eris.Wrap(err, "outreach: parse draft output")
	}
	if out.Body == "" {
		return nil, eris.New("outreach: draft output missing body")
	}
	if platform != model.PlatformEmail {
		out.Subject = ""
	}

	msg, err := d.store.CreateMessage(ctx, &model.Message{
		LeadID:        leadID,
		Platform:      platform,
		Subject:       out.Subject,
		Body:          out.Body,
		FollowUp1Body: out.FollowUp1,
		FollowUp2Body: out.FollowUp2,
	})
	if err != nil {
		return nil, eris.Wrap(err, "outreach: save draft")
	}

	log.Info("draft: saved", zap.Int("version", msg.Version))
	return msg, nil
}

func buildDraftPrompt(lead *model.Lead, platform model.Platform) string {
	contactName := lead.ContactName
	if contactName == "" {
		contactName = "the decision maker"
	}
	contactRole := lead.ContactRole
	if contactRole == "" {
		contactRole = "Decision Maker"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a cold outreach %s message to %s, %s at %s.\n\n",
		platform, contactName, contactRole, lead.Company)

	fmt.Fprintf(&b, "Company context: %s\n", orCompany(lead.Description, lead.Company))
	fmt.Fprintf(&b, "Why WalletConnect Pay helps them: %s\n", lead.ValueProp)
	if lead.KeyVP != "" {
		fmt.Fprintf(&b, "Lead with these angles: %s\n", lead.KeyVP)
	}
	fmt.Fprintf(&b, "Recent news/context: %s\n\n", newsContext(lead))

	b.WriteString(framing(lead.Category))
	b.WriteString("\n\nRules:\n")
	b.WriteString(`- Tone: casual, peer-to-peer, no buzzwords, no "I hope this finds you well", no "exciting opportunity"` + "\n")
	if platform == model.PlatformEmail {
		b.WriteString("- Length: 3 sentences for the email body (tight, no fluff)\n")
	} else {
		b.WriteString("- Length: 2 sentences for the LinkedIn DM (ultra-concise)\n")
	}
	b.WriteString("- Start with something specific to them, not a generic opener\n")
	b.WriteString(`- End with a single, low-friction CTA (e.g. "Worth a quick chat?")` + "\n")
	if platform == model.PlatformEmail {
		b.WriteString("- Include a compelling, specific subject line\n")
	} else {
		b.WriteString("- No subject line needed\n")
	}
	b.WriteString("- Also write two short follow-up bodies: one nudging after two weeks, one final-touch after three. Each references the original message without repeating it.\n")

	b.WriteString("\nReturn ONLY valid JSON with keys: ")
	if platform == model.PlatformEmail {
		b.WriteString(`"subject", "body", "follow_up_1", "follow_up_2"`)
	} else {
		b.WriteString(`"body", "follow_up_1", "follow_up_2"`)
	}
	b.WriteString("\nNo markdown, no explanation, just the JSON object.")
	return b.String()
}

// framing picks the pitch angle per category. Merchants hear about cost and
// revenue; everyone else is a distribution partner.
func framing(category string) string {
	if category == "Merchant" {
		return "Framing: they are a merchant. Pitch accepting stablecoin payments as a direct win for their own P&L: lower processing fees, no chargebacks, new crypto-native customers."
	}
	return "Framing: they are a potential distribution partner. Pitch offering WalletConnect Pay to THEIR merchants or users as a product advantage, not as something they adopt for themselves."
}

func newsContext(lead *model.Lead) string {
	if lead.StrategicPriorities != nil && len(lead.StrategicPriorities.NewsAndPress) > 0 {
		return strings.Join(lead.StrategicPriorities.NewsAndPress, "; ")
	}
	if len(lead.NewsSources) > 0 {
		titles := make([]string, 0, len(lead.NewsSources))
		for _, s := range lead.NewsSources {
			titles = append(titles, s.Title)
		}
		return strings.Join(titles, "; ")
	}
	return "None available"
}

func orCompany(desc, company string) string {
	if desc != "" {
		return desc
	}
	return company
}
