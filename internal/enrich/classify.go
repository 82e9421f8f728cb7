package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wcpay/gtm-agent/internal/decode"
	"github.com/wcpay/gtm-agent/internal/model"
	"github.com/wcpay/gtm-agent/pkg/anthropic"
)

// Classification is the result of the short category/size model call.
type Classification struct {
	Category      string `json:"category"`
	SizeEmployees string `json:"company_size_employees"`
}

// Classify resolves a lead's category and employee bracket with one short,
// low-token model call over the news excerpt. Soft failure: a model or
// parse error returns an empty classification and the pipeline continues.
func Classify(ctx context.Context, client anthropic.Client, clsModel, company, website, newsPrompt string) (Classification, anthropic.TokenUsage) {
	prompt := fmt.Sprintf(`Classify this company.

Company: %s
Website: %s
Recent news:
%s

Return ONLY a JSON object:
{
  "category": one of %s,
  "company_size_employees": one of %s or null if unknown
}`,
		company, orUnknown(website), orUnknown(newsPrompt),
		quoteList(model.Categories), quoteList(model.EmployeeBrackets))

	resp, err := client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     clsModel,
		MaxTokens: 100,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		zap.L().Warn("enrich: classify call failed", zap.String("company", company), zap.Error(err))
		return Classification{}, anthropic.TokenUsage{}
	}

	var cls Classification
	if err := decode.Object(resp.Text, &cls); err != nil {
		zap.L().Warn("enrich: classify parse failed", zap.String("company", company), zap.Error(err))
		return Classification{}, resp.Usage
	}

	if !model.ValidCategory(cls.Category) {
		cls.Category = ""
	}
	if !model.ValidEmployeeBracket(cls.SizeEmployees) {
		cls.SizeEmployees = ""
	}
	return cls, resp.Usage
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
