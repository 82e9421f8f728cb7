// Package enrich implements the multi-source lead-enrichment pipeline:
// external search adapters gather context, one composite model call fills
// qualification fields, and a gap-fill merge writes the result back without
// overwriting user-supplied data.
package enrich

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wcpay/gtm-agent/internal/config"
	"github.com/wcpay/gtm-agent/internal/decode"
	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/internal/roles"
	"github.com/wcpay/gtm-agent/internal/store"
	"github.com/wcpay/gtm-agent/pkg/anthropic"
	"github.com/wcpay/gtm-agent/pkg/apollo"
	"github.com/wcpay/gtm-agent/pkg/exa"
	"github.com/wcpay/gtm-agent/pkg/perplexity"
)

// Enricher runs the enrichment pipeline over single leads.
type Enricher struct {
	store      store.Store
	anthropic  anthropic.Client
	exa        exa.Client
	perplexity perplexity.Client
	apollo     apollo.Client
	aiCfg      config.AnthropicConfig
	cfg        config.EnrichConfig
}

// New creates an Enricher with all dependencies. The exa, perplexity and
// apollo clients may be nil; the corresponding adapters then contribute
// nothing.
func New(
	st store.Store,
	aiClient anthropic.Client,
	exaClient exa.Client,
	pplxClient perplexity.Client,
	apolloClient apollo.Client,
	aiCfg config.AnthropicConfig,
	cfg config.EnrichConfig,
) *Enricher {
	if cfg.NewsWindowDays <= 0 {
		cfg.NewsWindowDays = 90
	}
	return &Enricher{
		store:      st,
		anthropic:  aiClient,
		exa:        exaClient,
		perplexity: pplxClient,
		apollo:     apolloClient,
		aiCfg:      aiCfg,
		cfg:        cfg,
	}
}

// enrichmentOutput is the composite model call's JSON shape.
type enrichmentOutput struct {
	Category          string          `json:"category"`
	Industry          string          `json:"industry"`
	SizeEmployees     string          `json:"company_size_employees"`
	SizeRevenue       string          `json:"company_size_revenue"`
	ContactName       string          `json:"contact_name"`
	ContactRole       string          `json:"contact_role"`
	ContactEmail      string          `json:"contact_email"`
	ContactLinkedIn   string          `json:"contact_linkedin"`
	SecondaryName     string          `json:"secondary_contact_name"`
	SecondaryEmail    string          `json:"secondary_contact_email"`
	SecondaryLinkedIn string          `json:"secondary_contact_linkedin"`
	Priority          string          `json:"lead_priority"`
	KeyVP             string          `json:"key_vp"`
	Priorities        json.RawMessage `json:"strategic_priorities"`
	Description       string          `json:"company_description"`
	ValueProp         string          `json:"value_prop"`
}

// Enrich runs the full pipeline for one lead and returns the updated
// record. Adapter failures degrade to empty context; a model or store
// failure aborts and surfaces the error with no partial write.
func (e *Enricher) Enrich(ctx context.Context, id string) (*model.Lead, error) {
	lead, err := e.store.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead.Company == "" {
		return nil, eris.New("enrich: lead has no company name")
	}

	log := zap.L().With(zap.String("lead_id", id), zap.String("company", lead.Company))
	log.Info("enrich: starting")
	start := time.Now()

	updates := map[string]any{}
	var totalUsage anthropic.TokenUsage

	// Phase 1: resolve website, skipped when known.
	if lead.CompanyWebsite == "" {
		if site := ResolveWebsite(ctx, e.exa, lead.Company); site != "" {
			lead.CompanyWebsite = site
			updates["company_website"] = site
			log.Info("enrich: website resolved", zap.String("website", site))
		}
	}

	// Phase 2: gather context. The three adapters are independent of each
	// other and run concurrently; none of them can fail the pipeline.
	window := time.Duration(e.cfg.NewsWindowDays) * 24 * time.Hour
	var news NewsContext
	var priorities []string
	var social []model.SocialItem

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		news = SearchNews(gCtx, e.exa, lead.Company, lead.CompanyWebsite, window)
		return nil
	})
	g.Go(func() error {
		priorities = SearchPriorities(gCtx, e.perplexity, lead.Company, lead.CompanyWebsite)
		return nil
	})
	g.Go(func() error {
		social = SearchSocial(gCtx, e.exa, lead.Company, lead.ContactName, lead.SecondaryName, window)
		return nil
	})
	_ = g.Wait()
	log.Info("enrich: context gathered",
		zap.Int("news", len(news.Sources)),
		zap.Int("priorities", len(priorities)),
		zap.Int("social", len(social)),
	)

	// Phase 3: resolve category and size, skipped when both already known.
	// Manual values are respected; classification failure is soft.
	if lead.Category == "" || lead.SizeEmployees == "" {
		cls, usage := Classify(ctx, e.anthropic, e.aiCfg.ClassifyModel, lead.Company, lead.CompanyWebsite, news.Prompt)
		totalUsage.Add(usage)
		if lead.Category == "" {
			lead.Category = cls.Category
		}
		if lead.SizeEmployees == "" && cls.SizeEmployees != "" {
			lead.SizeEmployees = cls.SizeEmployees
			updates["company_size_employees"] = cls.SizeEmployees
		}
	}

	// Phase 4: resolve decision-maker titles; search only when no contact
	// is recorded yet.
	titles := roles.Resolve(lead.Category, roles.Bracket(lead.SizeEmployees))
	contactContext := ""
	if lead.ContactName == "" && lead.ContactEmail == "" {
		contactContext = SearchDecisionMakers(ctx, e.exa, lead.Company, domainOf(lead.CompanyWebsite), titles)
	}

	// Phase 5: the composite enrichment call. Not retried; failure aborts.
	prompt := buildEnrichmentPrompt(promptInput{
		Lead:           lead,
		News:           news,
		Priorities:     priorities,
		Social:         social,
		ContactContext: contactContext,
		TargetTitles:   titles,
	})
	resp, err := e.anthropic.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.aiCfg.Model,
		MaxTokens: 1024,
		System:    SystemPrompt,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "enrich: model call")
	}
	totalUsage.Add(resp.Usage)
	totalUsage.LogCost(e.aiCfg.Model, "enrich")

	var out enrichmentOutput
	if err := decode.Object(resp.Text, &out); err != nil {
		return nil, eris.Wrap(err, "enrich: parse model output")
	}

	// Phase 6: normalize strategic priorities; each adapter owns its bucket
	// (news titles, research bullets, social posts) over model guesses.
	sp := overlayPriorities(NormalizePriorities(out.Priorities), news.Sources, priorities, social)

	// Phase 7: resolve contact email.
	email := ResolveEmail(ctx, e.apollo, e.cfg.VerifyContacts, lead, out.ContactEmail, out.ContactName, out.ContactLinkedIn)

	// Phase 8: gap-fill merge into the stored record.
	e.merge(lead, &out, sp, news.Sources, email, updates)
	updates["lead_status"] = string(model.StatusEnriched)

	if err := e.store.UpdateLead(ctx, id, updates); err != nil {
		return nil, eris.Wrap(err, "enrich: persist")
	}

	log.Info("enrich: complete",
		zap.Int("fields_written", len(updates)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return e.store.GetLead(ctx, id)
}

// merge stages the gap-fill update set. Category is overwritten
// unconditionally; everything else only fills empty fields.
func (e *Enricher) merge(lead *model.Lead, out *enrichmentOutput, sp *model.StrategicPriorities, sources []model.NewsSource, email EmailResolution, updates map[string]any) {
	if model.ValidCategory(out.Category) {
		overwrite(updates, "category", out.Category)
		lead.Category = out.Category
	} else if lead.Category != "" {
		// Keep the classification phase's result when the composite call
		// returned nothing usable.
		overwrite(updates, "category", lead.Category)
	}

	if lead.Category == "Merchant" && model.ValidIndustry(out.Industry) {
		fillGap(updates, "industry", lead.Industry, out.Industry)
	}
	if model.ValidEmployeeBracket(out.SizeEmployees) {
		fillGap(updates, "company_size_employees", lead.SizeEmployees, out.SizeEmployees)
	}
	if model.ValidRevenueBracket(out.SizeRevenue) {
		fillGap(updates, "company_size_revenue", lead.SizeRevenue, out.SizeRevenue)
	}

	fillGap(updates, "contact_name", lead.ContactName, out.ContactName)
	fillGap(updates, "contact_role", lead.ContactRole, out.ContactRole)
	fillGap(updates, "contact_linkedin", lead.ContactLinkedIn, out.ContactLinkedIn)
	fillGap(updates, "secondary_contact_name", lead.SecondaryName, out.SecondaryName)
	fillGap(updates, "secondary_contact_email", lead.SecondaryEmail, out.SecondaryEmail)
	fillGap(updates, "secondary_contact_linkedin", lead.SecondaryLinkedIn, out.SecondaryLinkedIn)

	if out.Priority == string(model.PriorityHigh) || out.Priority == string(model.PriorityMedium) {
		fillGap(updates, "lead_priority", string(lead.Priority), out.Priority)
	}

	if keyVP := sanitizeKeyVP(out.KeyVP, lead.Category); keyVP != "" {
		fillGap(updates, "key_vp", lead.KeyVP, keyVP)
	} else if lead.KeyVP == "" {
		// key_vp is never left empty after a successful enrichment.
		updates["key_vp"] = model.ValuePropsFor(lead.Category)[0].Key
	}

	if sp != nil && lead.StrategicPriorities.IsEmpty() {
		if b, err := json.Marshal(sp); err == nil {
			updates["strategic_priorities"] = string(b)
		}
	}
	if len(sources) > 0 && len(lead.NewsSources) == 0 {
		if b, err := json.Marshal(sources); err == nil {
			updates["news_sources"] = string(b)
		}
	}

	fillGap(updates, "company_description", lead.Description, out.Description)
	fillGap(updates, "value_prop", lead.ValueProp, out.ValueProp)

	if email.Email != "" {
		updates["contact_email"] = email.Email
		updates["contact_email_inferred"] = email.Inferred
		updates["contact_email_verified"] = email.Verified
		fillGap(updates, "contact_linkedin", lead.ContactLinkedIn, email.LinkedIn)
		fillGap(updates, "contact_role", lead.ContactRole, email.Title)
	}
}

// sanitizeKeyVP keeps only catalog entries, capped at two.
func sanitizeKeyVP(raw, category string) string {
	if raw == "" {
		return ""
	}
	keys := model.ValuePropKeys(model.ValuePropsFor(category))
	var kept []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		for _, k := range keys {
			if strings.EqualFold(part, k) {
				kept = append(kept, k)
				break
			}
		}
		if len(kept) == 2 {
			break
		}
	}
	return strings.Join(kept, ", ")
}
