package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/pkg/exa"
)

// NewsContext is the news adapter's result: up to three specific articles
// plus a flattened text block for prompting.
type NewsContext struct {
	Sources []model.NewsSource
	Prompt  string
}

// SearchNews finds recent payments-relevant coverage of a company. Fails
// soft: any provider failure returns an empty context.
func SearchNews(ctx context.Context, client exa.Client, company, website string, window time.Duration) NewsContext {
	if client == nil {
		return NewsContext{}
	}

	query := fmt.Sprintf("%s recent news partnerships funding product launch", company)
	if website != "" {
		query = fmt.Sprintf("%s recent news partnerships funding product launch site:%s OR %q", company, website, company)
	}

	results, err := client.Search(ctx, query,
		exa.WithNumResults(8),
		exa.WithAutoprompt(true),
		exa.WithMaxCharacters(500),
		exa.WithPublishedAfter(time.Now().Add(-window)),
	)
	if err != nil {
		zap.L().Debug("enrich: news search failed", zap.String("company", company), zap.Error(err))
		return NewsContext{}
	}

	var out NewsContext
	var prompt strings.Builder
	for _, r := range results {
		if isGenericURL(r.URL) {
			continue
		}
		out.Sources = append(out.Sources, model.NewsSource{Title: r.Title, URL: r.URL})
		excerpt := truncateUTF8(r.Text, 200)
		fmt.Fprintf(&prompt, "- %s: %s\n", r.Title, excerpt)
		if len(out.Sources) == 3 {
			break
		}
	}
	out.Prompt = strings.TrimSpace(prompt.String())
	return out
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// genericSegments are path segments that name index pages rather than
// articles.
var genericSegments = map[string]bool{
	"news": true, "blog": true, "press": true, "media": true,
	"insights": true, "updates": true, "resources": true,
	"newsroom": true, "press-releases": true, "articles": true,
	"category": true, "tag": true, "topics": true,
	"en": true, "de": true, "fr": true, "es": true, "it": true, "pt": true,
}

// isGenericURL reports whether a result URL points at an index page (bare
// root, /news, /en/blog) rather than a specific article. Index pages carry
// no usable excerpt and crowd out real coverage.
func isGenericURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}

	path := strings.Trim(strings.ToLower(u.Path), "/")
	if path == "" {
		return true
	}
	for _, seg := range strings.Split(path, "/") {
		if !genericSegments[seg] {
			return false
		}
	}
	return true
}
