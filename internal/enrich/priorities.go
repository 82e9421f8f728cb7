package enrich

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/decode"
	"github.com/wcpay/gtm-agent/pkg/perplexity"
)

const prioritiesSystemPrompt = "You are a concise business analyst. Return ONLY a JSON array of strings, no markdown, no explanation."

var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// SearchPriorities asks the research provider for 3-5 strategic priorities
// tied to payments and crypto. Inline [n] citation markers are resolved
// against the response's citation list and appended as source URLs. Fails
// soft: provider or parse failures return no bullets.
func SearchPriorities(ctx context.Context, client perplexity.Client, company, website string) []string {
	if client == nil {
		return nil
	}

	site := ""
	if website != "" {
		site = fmt.Sprintf(" (%s)", website)
	}
	maxTokens := 400
	resp, err := client.ChatCompletion(ctx, perplexity.ChatCompletionRequest{
		Messages: []perplexity.Message{
			{Role: "system", Content: prioritiesSystemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				`What are the top 3-5 specific strategic priorities of %s%s related to payments, fintech, digital transformation, crypto, or blockchain? Return a JSON array of concise bullet-point strings. Example: ["Expanding stablecoin payment rails in Europe", "Launched crypto checkout for enterprise merchants"]. If you cannot find specific information, return an empty array [].`,
				company, site)},
		},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		zap.L().Debug("enrich: priorities search failed", zap.String("company", company), zap.Error(err))
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	var bullets []string
	if err := decode.Array(resp.Choices[0].Message.Content, &bullets); err != nil {
		zap.L().Debug("enrich: priorities parse failed", zap.String("company", company), zap.Error(err))
		return nil
	}

	var out []string
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		out = append(out, resolveCitations(b, resp.Citations))
		if len(out) == 5 {
			break
		}
	}
	return out
}

// resolveCitations replaces trailing [n] markers in a bullet with the cited
// URL. Markers without a matching citation are stripped.
func resolveCitations(bullet string, citations []string) string {
	var urls []string
	cleaned := citationMarker.ReplaceAllStringFunc(bullet, func(m string) string {
		n, err := strconv.Atoi(strings.Trim(m, "[]"))
		if err == nil && n >= 1 && n <= len(citations) {
			urls = append(urls, citations[n-1])
		}
		return ""
	})
	cleaned = strings.TrimSpace(cleaned)
	if len(urls) > 0 {
		cleaned += " (" + urls[0] + ")"
	}
	return cleaned
}
