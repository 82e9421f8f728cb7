package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/pkg/exa"
)

// ResolveWebsite finds a company's canonical root-domain URL. Run only when
// the lead has no known website. Fails soft: returns "" when nothing
// plausible was found.
func ResolveWebsite(ctx context.Context, client exa.Client, company string) string {
	if client == nil {
		return ""
	}

	results, err := client.Search(ctx,
		fmt.Sprintf("%s official website homepage", company),
		exa.WithNumResults(3), exa.WithAutoprompt(true), exa.WithMaxCharacters(100))
	if err != nil {
		zap.L().Debug("enrich: website search failed", zap.String("company", company), zap.Error(err))
		return ""
	}

	for _, r := range results {
		if root := rootDomainURL(r.URL); root != "" {
			return root
		}
	}
	return ""
}

// socialAndAggregatorHosts are never a company's own site.
var socialAndAggregatorHosts = map[string]bool{
	"linkedin.com": true, "twitter.com": true, "x.com": true,
	"facebook.com": true, "crunchbase.com": true, "wikipedia.org": true,
	"bloomberg.com": true, "github.com": true,
}

// rootDomainURL reduces a result URL to its scheme+host root, rejecting
// social and aggregator hosts.
func rootDomainURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		base := strings.Join(parts[len(parts)-2:], ".")
		if socialAndAggregatorHosts[base] {
			return ""
		}
	}

	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + host
}
