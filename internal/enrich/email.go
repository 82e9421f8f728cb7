package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/pkg/apollo"
)

// EmailResolution is the outcome of the email waterfall. Exactly one of
// Inferred and Verified can be true.
type EmailResolution struct {
	Email    string
	Inferred bool
	Verified bool
	// LinkedIn and Title are bonus fields from a verification match.
	LinkedIn string
	Title    string
}

// ResolveEmail runs the contact-email waterfall for one lead:
//
//  1. an already-known email is never touched;
//  2. an email the model found verbatim in search text wins next;
//  3. with verification opted in, the people-match provider is asked once;
//  4. otherwise a deterministic first.last@domain guess is synthesized.
//
// Only synthesis sets Inferred, only verification sets Verified.
func ResolveEmail(ctx context.Context, verifier apollo.Client, verify bool, lead *model.Lead, foundEmail, contactName, contactLinkedIn string) EmailResolution {
	if lead.ContactEmail != "" {
		return EmailResolution{}
	}

	if foundEmail != "" {
		return EmailResolution{Email: foundEmail}
	}

	name := contactName
	if name == "" {
		name = lead.ContactName
	}
	domain := domainOf(lead.CompanyWebsite)

	if verify && verifier != nil && name != "" {
		linkedIn := contactLinkedIn
		if linkedIn == "" {
			linkedIn = lead.ContactLinkedIn
		}
		person, err := verifier.MatchPerson(ctx, apollo.MatchRequest{
			Name:        name,
			Company:     lead.Company,
			Domain:      domain,
			LinkedInURL: linkedIn,
		})
		if err != nil {
			zap.L().Warn("enrich: contact verification failed",
				zap.String("company", lead.Company), zap.Error(err))
		} else if person != nil {
			return EmailResolution{
				Email:    person.Email,
				Verified: true,
				LinkedIn: person.LinkedInURL,
				Title:    person.Title,
			}
		}
	}

	if domain == "" {
		return EmailResolution{}
	}
	return EmailResolution{Email: SynthesizeEmail(name, domain), Inferred: true}
}

// SynthesizeEmail builds the deterministic fallback address: first.last@domain
// for a two-part name, first@domain for a single name, contact@domain when no
// name is known.
func SynthesizeEmail(name, domain string) string {
	parts := emailNameParts(name)
	switch {
	case len(parts) >= 2:
		return fmt.Sprintf("%s.%s@%s", parts[0], parts[len(parts)-1], domain)
	case len(parts) == 1:
		return fmt.Sprintf("%s@%s", parts[0], domain)
	default:
		return "contact@" + domain
	}
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// emailNameParts lowercases, strips diacritics and keeps only a-z within
// each name part.
func emailNameParts(name string) []string {
	flat, _, err := transform.String(deaccent, name)
	if err != nil {
		flat = name
	}
	var parts []string
	for _, word := range strings.Fields(strings.ToLower(flat)) {
		var b strings.Builder
		for _, r := range word {
			if r >= 'a' && r <= 'z' {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			parts = append(parts, b.String())
		}
	}
	return parts
}

// domainOf extracts the bare host from a website URL.
func domainOf(website string) string {
	if website == "" {
		return ""
	}
	raw := website
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
