package enrich

import (
	"encoding/json"
	"strings"

	"github.com/wcpay/gtm-agent/internal/model"
)

// NormalizePriorities coerces the three shapes the strategic_priorities
// field arrives in into the canonical object:
//
//   - a parsed {news_and_press, company_content, social_media} object;
//   - a JSON-encoded string holding that object or a flat array;
//   - a legacy flat string, which lands in company_content.
//
// Feeding a canonical object through again returns an equal object.
func NormalizePriorities(raw json.RawMessage) *model.StrategicPriorities {
	if len(raw) == 0 {
		return nil
	}

	if sp := parsePriorities(raw); sp != nil {
		return sp
	}

	// A bare JSON string: its content may itself be JSON, or legacy prose.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if sp := parsePriorities([]byte(s)); sp != nil {
			return sp
		}
		return &model.StrategicPriorities{CompanyContent: legacyLines(s)}
	}

	return nil
}

// parsePriorities tries the object and flat-array shapes.
func parsePriorities(raw []byte) *model.StrategicPriorities {
	var shaped struct {
		NewsAndPress   []string        `json:"news_and_press"`
		CompanyContent []string        `json:"company_content"`
		SocialMedia    json.RawMessage `json:"social_media"`
	}
	if err := json.Unmarshal(raw, &shaped); err == nil {
		sp := &model.StrategicPriorities{
			NewsAndPress:   shaped.NewsAndPress,
			CompanyContent: shaped.CompanyContent,
			SocialMedia:    normalizeSocial(shaped.SocialMedia),
		}
		if !sp.IsEmpty() {
			return sp
		}
	}

	var flat []string
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return &model.StrategicPriorities{CompanyContent: flat}
	}

	return nil
}

// normalizeSocial accepts both item objects and plain strings in the
// social_media bucket.
func normalizeSocial(raw json.RawMessage) []model.SocialItem {
	if len(raw) == 0 {
		return nil
	}
	var items []model.SocialItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}
	var texts []string
	if err := json.Unmarshal(raw, &texts); err == nil {
		items = make([]model.SocialItem, 0, len(texts))
		for _, t := range texts {
			if t != "" {
				items = append(items, model.SocialItem{Text: t})
			}
		}
		return items
	}
	return nil
}

// legacyLines splits a flat legacy priorities string into bullets.
func legacyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-•* \t"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// overlayPriorities merges adapter-gathered data over model-guessed
// priorities. Each bucket belongs to one adapter: the news search owns
// news_and_press, the research provider owns company_content, the social
// search owns social_media. The model only fills buckets the adapters left
// empty.
func overlayPriorities(sp *model.StrategicPriorities, sources []model.NewsSource, research []string, social []model.SocialItem) *model.StrategicPriorities {
	if sp == nil {
		sp = &model.StrategicPriorities{}
	}
	if len(sources) > 0 {
		titles := make([]string, 0, len(sources))
		for _, s := range sources {
			titles = append(titles, s.Title)
		}
		sp.NewsAndPress = titles
	}
	if len(research) > 0 {
		sp.CompanyContent = research
	}
	if len(social) > 0 {
		sp.SocialMedia = social
	}
	if sp.IsEmpty() {
		return nil
	}
	return sp
}
