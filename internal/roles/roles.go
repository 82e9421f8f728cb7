// Package roles maps a lead's category and size bracket to an ordered list
// of decision-maker job titles. The tables are curated data, not code: the
// decision-maker search and the enrichment prompt both consume the list as a
// "try these titles in this order" policy.
package roles

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

// Size brackets used by the title tables. "small" collapses the 1-10 and
// 10-100 employee ranges: companies that size route to founders regardless
// of category.
const (
	BracketEnterprise = "5000+"
	BracketLarge      = "500-5000"
	BracketMid        = "100-500"
	BracketSmall      = "small"
)

type tables struct {
	Defaults   map[string][]string            `yaml:"defaults"`
	Categories map[string]map[string][]string `yaml:"categories"`
}

var titleTables tables

func init() {
	if err := yaml.Unmarshal(tablesYAML, &titleTables); err != nil {
		panic("roles: parse embedded tables: " + err.Error())
	}
}

// Bracket normalizes an employee-count range to a table bracket. Unknown or
// empty input maps to small, the most conservative search target.
func Bracket(employeeRange string) string {
	switch employeeRange {
	case "5000+":
		return BracketEnterprise
	case "500-5000":
		return BracketLarge
	case "100-500":
		return BracketMid
	default:
		return BracketSmall
	}
}

// Resolve returns the ordered target titles for a (category, size bracket)
// pair. It is total: unknown categories fall back to the generic
// size-indexed list, and the small-company list is the final fallback, so
// the result is never empty.
func Resolve(category, sizeBracket string) []string {
	bracket := sizeBracket
	switch bracket {
	case BracketEnterprise, BracketLarge, BracketMid, BracketSmall:
	default:
		bracket = Bracket(sizeBracket)
	}

	if byBracket, ok := titleTables.Categories[category]; ok {
		if titles, ok := byBracket[bracket]; ok && len(titles) > 0 {
			return titles
		}
	}
	if titles, ok := titleTables.Defaults[bracket]; ok && len(titles) > 0 {
		return titles
	}
	return titleTables.Defaults[BracketSmall]
}
