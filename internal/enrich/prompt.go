package enrich

import (
	"fmt"
	"strings"

	"github.com/wcpay/gtm-agent/internal/model"
)

// SystemPrompt anchors every model call on the product being sold.
const SystemPrompt = `You are a top B2B sales researcher and copywriter for WalletConnect Pay, an end-to-end crypto and stablecoin payment method (APM) for global commerce.

Key facts about WalletConnect Pay:
- 700+ wallets supported
- 500M+ reachable users globally
- $400B+ transaction volume in 2025
- Fees of 0.5-1.0% (vs 2.5-3.5% for traditional cards)
- Settlement in seconds, not days
- Built-in compliance (KYC/AML handled)
- Single API integration into existing PSP stacks
- Supports stablecoins (USDC, USDT) and major cryptocurrencies`

// promptInput gathers everything the composite enrichment prompt needs.
type promptInput struct {
	Lead           *model.Lead
	News           NewsContext
	Priorities     []string
	Social         []model.SocialItem
	ContactContext string
	TargetTitles   []string
}

// buildEnrichmentPrompt renders the single composite enrichment prompt:
// all gathered context, per-field closed-set instructions, the
// current-employee rule, and the category-branch value-prop catalog.
func buildEnrichmentPrompt(in promptInput) string {
	lead := in.Lead
	var b strings.Builder

	fmt.Fprintf(&b, `You are qualifying a B2B sales lead for WalletConnect Pay. Based on the information below, fill in as many fields as you can with reasonable confidence.

Company: %s
Website: %s
Category (if known): %s

Recent news and context:
%s

Strategic priorities found by research:
%s

Social media mentions:
%s
`,
		lead.Company, orUnknown(lead.CompanyWebsite), orUnknown(lead.Category),
		orUnknown(in.News.Prompt), orUnknown(bulletList(in.Priorities)), orUnknown(socialList(in.Social)))

	if in.ContactContext != "" {
		fmt.Fprintf(&b, "\nContact/team information found:\n%s\n", in.ContactContext)
	}

	fmt.Fprintf(&b, `
Current known contact info:
- Name: %s
- Role: %s
- Email: %s

Target decision-maker titles, in priority order: %s

Instructions:
- category must be one of %s
- industry applies ONLY when category is "Merchant" and must be one of %s; otherwise return null
- company_size_employees must be one of %s
- company_size_revenue must be one of %s
- lead_priority: "High" = strong fit (payments-focused, high volume, crypto-friendly), "Medium" = possible fit
- The contact must be a CURRENT employee of %s. Reject former employees and people whose LinkedIn headline names a different company.
- Prefer contacts holding the target titles above, earlier entries first.
- Do NOT invent contact details; only return a name, role, email or LinkedIn URL that appears in the context above.
- Do NOT overwrite contact info that is already known (marked as non-Unknown above).
`,
		orUnknown(lead.ContactName), orUnknown(lead.ContactRole), orUnknown(lead.ContactEmail),
		strings.Join(in.TargetTitles, ", "),
		quoteList(model.Categories), quoteList(model.Industries),
		quoteList(model.EmployeeBrackets), quoteList(model.RevenueBrackets),
		lead.Company)

	category := lead.Category
	catalog := model.ValuePropsFor(category)
	fmt.Fprintf(&b, `- key_vp: pick the 1-2 value propositions that best fit this specific company and justify the pick inside value_prop. Choose from:
%s
`, catalogList(catalog))

	b.WriteString(`
Return ONLY valid JSON with these exact keys (null for unknown):
{
  "category": string,
  "industry": string | null,
  "company_size_employees": string | null,
  "company_size_revenue": string | null,
  "contact_name": string | null,
  "contact_role": string | null,
  "contact_email": string | null,
  "contact_linkedin": string | null,
  "secondary_contact_name": string | null,
  "secondary_contact_email": string | null,
  "secondary_contact_linkedin": string | null,
  "lead_priority": "High" | "Medium" | null,
  "key_vp": "Tag" or "Tag1, Tag2",
  "strategic_priorities": {"news_and_press": [string], "company_content": [string], "social_media": [string]},
  "company_description": "2-3 sentence factual summary of what this company does and who their customers are",
  "value_prop": "2-3 sentences on specifically how WalletConnect Pay benefits this company; be concrete, reference their business model"
}

No markdown, no explanation, just the JSON object.`)

	return b.String()
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- %s\n", it)
	}
	return strings.TrimSpace(b.String())
}

func socialList(items []model.SocialItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "- %s (%s)\n", it.Text, it.URL)
	}
	return strings.TrimSpace(b.String())
}

func catalogList(catalog []model.ValueProp) string {
	var b strings.Builder
	for _, vp := range catalog {
		fmt.Fprintf(&b, "  - %s: %s\n", vp.Key, vp.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
