package enrich

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wcpay/gtm-agent/pkg/exa"
)

func TestIsGenericURL(t *testing.T) {
	generic := []string{
		"https://acme.com",
		"https://acme.com/",
		"https://acme.com/news",
		"https://acme.com/news/",
		"https://acme.com/blog",
		"https://acme.com/en/blog",
		"https://acme.com/press",
		"https://acme.com/newsroom",
	}
	for _, u := range generic {
		assert.True(t, isGenericURL(u), u)
	}

	specific := []string{
		"https://acme.com/2024/03/acme-raises-series-b",
		"https://acme.com/blog/acme-launches-crypto-checkout",
		"https://acme.com/news/2025/partnership-announcement",
		"https://techsite.com/article/acme-expansion",
	}
	for _, u := range specific {
		assert.False(t, isGenericURL(u), u)
	}
}

func TestSearchNews_FiltersGenericAndCaps(t *testing.T) {
	client := &mockExaClient{}
	client.On("Search", mock.Anything, mock.Anything).Return([]exa.Result{
		{Title: "Acme homepage", URL: "https://acme.com", Text: "welcome"},
		{Title: "Acme raises Series B", URL: "https://acme.com/2024/03/series-b", Text: "Acme announced a $30M round"},
		{Title: "Blog index", URL: "https://acme.com/blog", Text: "posts"},
		{Title: "Crypto checkout launch", URL: "https://acme.com/blog/crypto-checkout", Text: "launching today"},
		{Title: "Partnership news", URL: "https://paynews.com/acme-partners-with-wallets", Text: "partnership"},
		{Title: "Fourth article", URL: "https://paynews.com/acme-expands-latam", Text: "expansion"},
	}, nil)

	ctx := SearchNews(context.Background(), client, "Acme", "acme.com", 90*24*time.Hour)

	require.Len(t, ctx.Sources, 3)
	assert.Equal(t, "Acme raises Series B", ctx.Sources[0].Title)
	assert.Contains(t, ctx.Prompt, "Acme announced a $30M round")
	assert.NotContains(t, ctx.Prompt, "welcome")
	client.AssertExpectations(t)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 200))

	// 2-byte runes: a cut at an odd byte offset must back up to the rune start.
	s := strings.Repeat("é", 150)
	cut := truncateUTF8(s, 201)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, 200)

	assert.Equal(t, "", truncateUTF8("é", 1))
}

func TestSearchNews_ExcerptCutKeepsValidUTF8(t *testing.T) {
	client := &mockExaClient{}
	client.On("Search", mock.Anything, mock.Anything).Return([]exa.Result{
		{Title: "Umlaut article", URL: "https://paynews.com/acme-zürich-launch", Text: strings.Repeat("ü", 150)},
	}, nil)

	ctx := SearchNews(context.Background(), client, "Acme", "", 90*24*time.Hour)

	require.Len(t, ctx.Sources, 1)
	assert.True(t, utf8.ValidString(ctx.Prompt))
}

func TestSearchNews_ProviderFailureIsSoft(t *testing.T) {
	client := &mockExaClient{}
	client.On("Search", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	ctx := SearchNews(context.Background(), client, "Acme", "", 90*24*time.Hour)

	assert.Empty(t, ctx.Sources)
	assert.Empty(t, ctx.Prompt)
}

func TestSearchNews_NilClient(t *testing.T) {
	ctx := SearchNews(context.Background(), nil, "Acme", "", 90*24*time.Hour)
	assert.Empty(t, ctx.Sources)
}
