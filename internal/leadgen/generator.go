// Package leadgen turns a free-text company profile into concrete leads by
// combining model-generated company lists with decision-maker web search.
package leadgen

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/config"
	"github.com/wcpay/gtm-agent/internal/decode"
	"github.com/wcpay/gtm-agent/internal/enrich"
	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/internal/store"
	"github.com/wcpay/gtm-agent/pkg/anthropic"
	"github.com/wcpay/gtm-agent/pkg/exa"
)

// ErrEmptyProfile is returned when the request carries no usable profile.
var ErrEmptyProfile = eris.New("leadgen: company profile and target titles are required")

// ErrNoCompanies is returned when the model produced no matching companies.
var ErrNoCompanies = eris.New("leadgen: could not generate a company list, try a more specific profile")

// Generator produces prospective leads from a market profile.
type Generator struct {
	store     store.Store
	anthropic anthropic.Client
	exa       exa.Client
	cfg       config.AnthropicConfig
}

// New returns a Generator. A nil exa client skips decision-maker search and
// every generated contact comes back inferred.
func New(st store.Store, ai anthropic.Client, ex exa.Client, cfg config.AnthropicConfig) *Generator {
	return &Generator{store: st, anthropic: ai, exa: ex, cfg: cfg}
}

// Request is one lead-generation run.
type Request struct {
	Profile string `json:"profile"`
	// Titles is a comma or newline separated list of target roles.
	Titles string `json:"titles"`
	// Persist writes the generated leads to the store.
	Persist bool `json:"persist,omitempty"`
}

// GeneratedLead is one prospective lead before persistence.
type GeneratedLead struct {
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactRole    string `json:"contact_role,omitempty"`
	LinkedIn       string `json:"contact_linkedin,omitempty"`
	Company        string `json:"company"`
	CompanyWebsite string `json:"company_website,omitempty"`
	CompanySize    string `json:"company_size,omitempty"`
	// Inferred marks a placeholder or guessed contact rather than one named
	// in search results.
	Inferred bool `json:"is_inferred"`
}

type companyResult struct {
	Company     string `json:"company"`
	Website     string `json:"website"`
	Country     string `json:"country"`
	CompanySize string `json:"company_size"`
}

type personResult struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin_url"`
	Inferred bool   `json:"is_inferred"`
}

// Generate runs the full profile-to-leads flow. When req.Persist is set the
// leads are also written as New rows with Outbound source.
func (g *Generator) Generate(ctx context.Context, req Request) ([]GeneratedLead, error) {
	titles := splitTitles(req.Titles)
	if strings.TrimSpace(req.Profile) == "" || len(titles) == 0 {
		return nil, ErrEmptyProfile
	}

	log := zap.L().With(zap.String("profile", truncate(req.Profile, 80)))
	log.Info("leadgen: generating company list")

	companies, err := g.companyList(ctx, req.Profile)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, ErrNoCompanies
	}
	if len(companies) > 5 {
		companies = companies[:5]
	}

	// Search every company in parallel, then extract one person per company.
	searches := make([]string, len(companies))
	var wg sync.WaitGroup
	for i, co := range companies {
		wg.Add(1)
		go func(i int, co companyResult) {
			defer wg.Done()
			searches[i] = enrich.SearchDecisionMakers(ctx, g.exa, co.Company, co.Website, titles)
		}(i, co)
	}
	wg.Wait()

	leads := make([]GeneratedLead, len(companies))
	for i, co := range companies {
		person := g.extractPerson(ctx, searches[i], co.Company, titles)
		leads[i] = combine(co, person, titles)
	}

	if req.Persist {
		if _, err := g.persist(ctx, leads); err != nil {
			return nil, err
		}
	}

	log.Info("leadgen: complete", zap.Int("leads", len(leads)))
	return leads, nil
}

func (g *Generator) companyList(ctx context.Context, profile string) ([]companyResult, error) {
	resp, err := g.anthropic.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.cfg.Model,
		MaxTokens: 800,
		Messages: []anthropic.Message{
			{Role: "user", Content: companyListPrompt(profile)},
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "leadgen: company list call")
	}
	resp.Usage.LogCost(g.cfg.Model, "leadgen_companies")

	var companies []companyResult
	if err := decode.Array(resp.Text, &companies); err != nil {
		// A malformed list reads the same as an empty one to the caller.
		return nil, nil
	}
	return companies, nil
}

func companyListPrompt(profile string) string {
	return fmt.Sprintf(`You are a B2B market researcher. Generate a list of 5 real companies that match this profile:

"%s"

For each company return:
- company: exact company name
- website: their real website URL (e.g. https://example.com)
- country: headquarters country
- company_size: estimated employee range (e.g. "51-200")

Return ONLY a valid JSON array, no markdown, no explanation.`, profile)
}

// extractPerson pulls one named contact out of raw search results. Any
// failure degrades to an inferred placeholder.
func (g *Generator) extractPerson(ctx context.Context, searchResults, company string, titles []string) personResult {
	inferred := personResult{Inferred: true}
	if strings.TrimSpace(searchResults) == "" {
		return inferred
	}

	resp, err := g.anthropic.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.cfg.ClassifyModel,
		MaxTokens: 300,
		Messages: []anthropic.Message{
			{Role: "user", Content: extractPrompt(searchResults, company, titles)},
		},
	})
	if err != nil {
		zap.L().Warn("leadgen: person extraction failed", zap.String("company", company), zap.Error(err))
		return inferred
	}
	resp.Usage.LogCost(g.cfg.ClassifyModel, "leadgen_extract")

	var person personResult
	if err := decode.Object(resp.Text, &person); err != nil {
		return inferred
	}
	if person.Name == "" {
		person.Inferred = true
	}
	return person
}

func extractPrompt(searchResults, company string, titles []string) string {
	return fmt.Sprintf(`From these web search results about %s, find ONE person who holds one of these roles: %s.

Search results:
%s

Return ONLY valid JSON:
{
  "name": "First Last" or null if not clearly stated,
  "title": "their exact title" or null,
  "email": "their email" or null,
  "linkedin_url": "their LinkedIn URL" or null,
  "is_inferred": false if the name is explicitly in the results, true if guessed
}`, company, strings.Join(titles, ", "), truncate(searchResults, 1500))
}

func combine(co companyResult, person personResult, titles []string) GeneratedLead {
	lead := GeneratedLead{
		ContactName:    person.Name,
		ContactEmail:   person.Email,
		ContactRole:    person.Title,
		LinkedIn:       person.LinkedIn,
		Company:        co.Company,
		CompanyWebsite: co.Website,
		CompanySize:    co.CompanySize,
		Inferred:       person.Inferred,
	}
	if lead.ContactName == "" {
		lead.ContactName = "Decision Maker at " + co.Company
		lead.Inferred = true
	}
	if lead.ContactRole == "" && len(titles) > 0 {
		lead.ContactRole = titles[0]
	}
	return lead
}

func (g *Generator) persist(ctx context.Context, generated []GeneratedLead) (int, error) {
	leads := make([]model.Lead, 0, len(generated))
	for _, gl := range generated {
		leads = append(leads, model.Lead{
			Company:         gl.Company,
			CompanyWebsite:  gl.CompanyWebsite,
			SizeEmployees:   normalizeSize(gl.CompanySize),
			ContactName:     gl.ContactName,
			ContactRole:     gl.ContactRole,
			ContactEmail:    gl.ContactEmail,
			ContactLinkedIn: gl.LinkedIn,
			EmailInferred:   gl.Inferred && gl.ContactEmail != "",
			Source:          model.SourceOutbound,
			Status:          model.StatusNew,
		})
	}
	n, err := g.store.CreateLeads(ctx, leads)
	if err != nil {
		return 0, eris.Wrap(err, "leadgen: persist")
	}
	return n, nil
}

// normalizeSize snaps loose employee ranges onto the catalog brackets.
func normalizeSize(raw string) string {
	if model.ValidEmployeeBracket(raw) {
		return raw
	}
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "1-") || strings.HasPrefix(raw, "2-") || strings.HasPrefix(raw, "11-"):
		return "1-10"
	case strings.HasPrefix(raw, "51-") || strings.HasPrefix(raw, "10-") || strings.HasPrefix(raw, "50-"):
		return "10-100"
	case strings.HasPrefix(raw, "201-") || strings.HasPrefix(raw, "100-") || strings.HasPrefix(raw, "101-"):
		return "100-500"
	case strings.HasPrefix(raw, "501-") || strings.HasPrefix(raw, "1000-") || strings.HasPrefix(raw, "1001-"):
		return "500-5000"
	case strings.HasPrefix(raw, "5000") || strings.HasPrefix(raw, "10000"):
		return "5000+"
	default:
		return ""
	}
}

func splitTitles(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' })
	var titles []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			titles = append(titles, p)
		}
	}
	return titles
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
