package leadgen

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wcpay/gtm-agent/internal/config"
	"github.com/wcpay/gtm-agent/pkg/anthropic"
)

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func newTestGenerator(ai *mockAnthropicClient) *Generator {
	// nil exa and store: search contributes nothing, persistence is off.
	return New(nil, ai, nil, config.AnthropicConfig{
		Model:         "claude-sonnet-4-5-20250929",
		ClassifyModel: "claude-haiku-4-5-20251001",
	})
}

func TestGenerate_PlaceholderContacts(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.MaxTokens == 800
	})).Return(&anthropic.MessageResponse{
		Text: `[{"company": "Acme Pay", "website": "https://acme.com", "country": "US", "company_size": "51-200"},
		       {"company": "Globex", "website": "https://globex.io", "country": "DE", "company_size": "201-500"}]`,
	}, nil).Once()

	leads, err := newTestGenerator(ai).Generate(context.Background(), Request{
		Profile: "mid-market payment gateways in Europe",
		Titles:  "Head of Payments, CFO",
	})
	require.NoError(t, err)
	require.Len(t, leads, 2)

	// With no search backend every contact is an inferred placeholder with
	// the first target title.
	assert.Equal(t, "Decision Maker at Acme Pay", leads[0].ContactName)
	assert.Equal(t, "Head of Payments", leads[0].ContactRole)
	assert.True(t, leads[0].Inferred)
	assert.Equal(t, "https://globex.io", leads[1].CompanyWebsite)
	ai.AssertExpectations(t)
}

func TestGenerate_EmptyProfileRejected(t *testing.T) {
	ai := &mockAnthropicClient{}

	_, err := newTestGenerator(ai).Generate(context.Background(), Request{Profile: "  ", Titles: "CFO"})
	require.ErrorIs(t, err, ErrEmptyProfile)

	_, err = newTestGenerator(ai).Generate(context.Background(), Request{Profile: "gateways", Titles: ""})
	require.ErrorIs(t, err, ErrEmptyProfile)
	ai.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestGenerate_UnparseableListIsEmpty(t *testing.T) {
	ai := &mockAnthropicClient{}
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{Text: "I could not find any companies."}, nil).Once()

	_, err := newTestGenerator(ai).Generate(context.Background(), Request{
		Profile: "quantum payment rails", Titles: "CFO",
	})
	require.ErrorIs(t, err, ErrNoCompanies)
}

func TestGenerate_CapsAtFiveCompanies(t *testing.T) {
	ai := &mockAnthropicClient{}
	list := `[{"company":"A"},{"company":"B"},{"company":"C"},{"company":"D"},{"company":"E"},{"company":"F"},{"company":"G"}]`
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{Text: list}, nil).Once()

	leads, err := newTestGenerator(ai).Generate(context.Background(), Request{
		Profile: "gateways", Titles: "CFO",
	})
	require.NoError(t, err)
	assert.Len(t, leads, 5)
}

func TestSplitTitles(t *testing.T) {
	assert.Equal(t, []string{"CFO", "Head of Payments"}, splitTitles("CFO, Head of Payments"))
	assert.Equal(t, []string{"CFO", "CTO"}, splitTitles("CFO\nCTO\n"))
	assert.Empty(t, splitTitles(" ,\n, "))
}

func TestNormalizeSize(t *testing.T) {
	assert.Equal(t, "10-100", normalizeSize("51-200"))
	assert.Equal(t, "100-500", normalizeSize("201-500"))
	assert.Equal(t, "500-5000", normalizeSize("1001-5000"))
	assert.Equal(t, "1-10", normalizeSize("1-10"))
	assert.Equal(t, "5000+", normalizeSize("5000+"))
	assert.Empty(t, normalizeSize("a few"))
	assert.Empty(t, normalizeSize(""))
}

func TestTruncate_RuneBoundary(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 80))
	cut := truncate(strings.Repeat("ß", 100), 81)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, 80)
}

func TestCombine_NamedPersonKept(t *testing.T) {
	lead := combine(
		companyResult{Company: "Acme", Website: "https://acme.com", CompanySize: "51-200"},
		personResult{Name: "Jane Doe", Title: "CFO", Email: "jane@acme.com", Inferred: false},
		[]string{"Head of Payments"},
	)
	assert.Equal(t, "Jane Doe", lead.ContactName)
	assert.Equal(t, "CFO", lead.ContactRole)
	assert.False(t, lead.Inferred)
	assert.Equal(t, "jane@acme.com", lead.ContactEmail)
}
