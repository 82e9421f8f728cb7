package enrich

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/pkg/exa"
)

// SearchSocial finds recent social-media posts mentioning the company or
// its named contacts. Fails soft: provider failures return no items.
func SearchSocial(ctx context.Context, client exa.Client, company, contactName, secondaryName string, window time.Duration) []model.SocialItem {
	if client == nil {
		return nil
	}

	queries := []string{
		fmt.Sprintf("%q payments crypto stablecoin blockchain digital assets", company),
	}
	if contactName != "" {
		queries = append(queries, fmt.Sprintf("%q payments crypto blockchain", contactName))
	}
	if secondaryName != "" {
		queries = append(queries, fmt.Sprintf("%q payments crypto blockchain", secondaryName))
	}
	if len(queries) > 3 {
		queries = queries[:3]
	}

	after := time.Now().Add(-window)
	seen := make(map[string]bool)
	var items []model.SocialItem

	for _, q := range queries {
		results, err := client.Search(ctx, q,
			exa.WithNumResults(3),
			exa.WithMaxCharacters(600),
			exa.WithIncludeDomains("twitter.com", "x.com"),
			exa.WithPublishedAfter(after),
		)
		if err != nil {
			zap.L().Debug("enrich: social search failed", zap.String("query", q), zap.Error(err))
			continue
		}
		for _, r := range results {
			if seen[r.URL] || !isSocialDomain(r.URL) {
				continue
			}
			seen[r.URL] = true
			if text := cleanSocialText(r.Text, r.Title, r.URL); text != "" {
				items = append(items, model.SocialItem{Text: text, URL: r.URL})
			}
		}
	}

	if len(items) > 5 {
		items = items[:5]
	}
	return items
}

// isSocialDomain accepts only the social platforms this section is for.
func isSocialDomain(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host == "twitter.com" || host == "x.com" || host == "linkedin.com"
}

var bracketToken = regexp.MustCompile(`\[[^\]]{1,40}\]`)

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&nbsp;", " ",
)

// cleanSocialText turns raw scraped text into a usable excerpt. LinkedIn
// results are often login-walled and search results in general carry
// navigation boilerplate; when the body is unusable the title stands in.
// Returns "" when neither is usable.
func cleanSocialText(raw, title, rawURL string) string {
	titleFallback := ""
	if len(title) > 10 {
		titleFallback = title
	}

	if strings.Contains(rawURL, "linkedin.com") {
		if strings.HasPrefix(raw, "Agree & Join") ||
			strings.Contains(raw, "Sign in to view") ||
			strings.Contains(raw, "Skip to main content") {
			return titleFallback
		}
	}

	text := htmlEntities.Replace(raw)

	// Drop lines dominated by bracketed nav tokens ([Sign Up] [Login] ...).
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		tokens := len(bracketToken.FindAllString(line, -1))
		words := len(strings.Fields(trimmed))
		if tokens > 3 && words > 0 && float64(tokens)/float64(words) > 0.4 {
			continue
		}
		kept = append(kept, trimmed)
	}
	text = strings.Join(strings.Fields(strings.Join(kept, " ")), " ")

	// Still dominated by nav noise: fall back to the title.
	head := truncateUTF8(text, 300)
	if len(bracketToken.FindAllString(head, -1)) > 5 {
		return titleFallback
	}

	if len(text) > 220 {
		cut := truncateUTF8(text, 220)
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		text = cut + "…"
	}

	if len(text) > 20 {
		return text
	}
	return titleFallback
}
