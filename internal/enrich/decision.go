package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/pkg/exa"
)

// SearchDecisionMakers looks for people holding the target titles at a
// company. Phase one runs three queries in parallel: the company's own
// team/leadership pages, a general web query combining company and titles,
// and a title-restricted LinkedIn profile query. Phase two extracts
// capitalized name candidates from the phase-one text and re-queries
// LinkedIn by name, which recovers people whose title never matched but
// whose name leaked through coverage. Fails soft: returns "" when nothing
// was found.
func SearchDecisionMakers(ctx context.Context, client exa.Client, company, website string, titles []string) string {
	if client == nil {
		return ""
	}

	if len(titles) > 5 {
		titles = titles[:5]
	}
	titleQuery := strings.Join(titles, " OR ")

	var mu sync.Mutex
	var results []exa.Result
	collect := func(rs []exa.Result, err error, what string) {
		if err != nil {
			zap.L().Debug("enrich: decision-maker search failed",
				zap.String("company", company), zap.String("query", what), zap.Error(err))
			return
		}
		mu.Lock()
		results = append(results, rs...)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	if website != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs, err := client.Search(ctx,
				fmt.Sprintf("site:%s team about leadership people executives", website),
				exa.WithNumResults(3), exa.WithMaxCharacters(1000))
			collect(rs, err, "site")
		}()
	}
	wg.Add(2)
	go func() {
		defer wg.Done()
		rs, err := client.Search(ctx,
			fmt.Sprintf("%q (%s) name email contact", company, titleQuery),
			exa.WithNumResults(3), exa.WithAutoprompt(true), exa.WithMaxCharacters(800))
		collect(rs, err, "web")
	}()
	go func() {
		defer wg.Done()
		rs, err := client.Search(ctx,
			fmt.Sprintf("%s %s", company, titleQuery),
			exa.WithNumResults(3), exa.WithMaxCharacters(800),
			exa.WithIncludeDomains("linkedin.com"))
		collect(rs, err, "linkedin")
	}()
	wg.Wait()

	deduped := dedupeByURL(results)
	text := flattenResults(deduped)

	// Phase two: name candidates found in phase-one text.
	if names := extractNameCandidates(text); len(names) > 0 {
		if len(names) > 3 {
			names = names[:3]
		}
		rs, err := client.Search(ctx,
			fmt.Sprintf("%s %s", strings.Join(names, " OR "), company),
			exa.WithNumResults(3), exa.WithMaxCharacters(600),
			exa.WithIncludeDomains("linkedin.com"))
		if err != nil {
			zap.L().Debug("enrich: decision-maker name search failed",
				zap.String("company", company), zap.Error(err))
		} else {
			merged := dedupeByURL(append(deduped, rs...))
			text = flattenResults(merged)
		}
	}

	return text
}

func dedupeByURL(results []exa.Result) []exa.Result {
	seen := make(map[string]bool, len(results))
	out := results[:0:0]
	for _, r := range results {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		out = append(out, r)
	}
	return out
}

func flattenResults(results []exa.Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] (%s)\n%s", r.Title, r.URL, r.Text)
	}
	return b.String()
}

var namePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s[A-Z][a-z]+){1,2})\b`)

// nameStopwords are capitalized sequences that match the name pattern but
// are obviously not people.
var nameStopwords = map[string]bool{
	"Chief Executive":   true,
	"Vice President":    true,
	"Managing Director": true,
	"Head Of":           true,
	"New York":          true,
	"San Francisco":     true,
	"United States":     true,
	"United Kingdom":    true,
	"Privacy Policy":    true,
	"Terms Of":          true,
	"Learn More":        true,
	"Read More":         true,
	"Sign In":           true,
	"Sign Up":           true,
}

// extractNameCandidates pulls capitalized two-to-three-word sequences out of
// search text as probable person names.
func extractNameCandidates(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range namePattern.FindAllString(text, -1) {
		if seen[m] || nameStopwords[m] {
			continue
		}
		seen[m] = true
		names = append(names, m)
	}
	return names
}
