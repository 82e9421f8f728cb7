package enrich

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcpay/gtm-agent/internal/model"
)

func TestNormalizePriorities_CanonicalObjectIsStable(t *testing.T) {
	canonical := &model.StrategicPriorities{
		NewsAndPress:   []string{"Raised Series B"},
		CompanyContent: []string{"Expanding to LATAM"},
		SocialMedia:    []model.SocialItem{{Text: "Hiring payment engineers", URL: "https://x.com/1"}},
	}
	raw, err := json.Marshal(canonical)
	require.NoError(t, err)

	once := NormalizePriorities(raw)
	require.NotNil(t, once)
	assert.True(t, canonical.Equal(once))

	// Idempotent: normalizing a normalized object changes nothing.
	again, err := json.Marshal(once)
	require.NoError(t, err)
	twice := NormalizePriorities(again)
	assert.True(t, once.Equal(twice))
}

func TestNormalizePriorities_JSONEncodedString(t *testing.T) {
	inner := `{"news_and_press": ["Raised Series B"], "company_content": [], "social_media": []}`
	raw, err := json.Marshal(inner)
	require.NoError(t, err)

	sp := NormalizePriorities(raw)
	require.NotNil(t, sp)
	assert.Equal(t, []string{"Raised Series B"}, sp.NewsAndPress)
}

func TestNormalizePriorities_LegacyFlatString(t *testing.T) {
	raw, err := json.Marshal("- Expanding stablecoin rails\n- Launched crypto checkout")
	require.NoError(t, err)

	sp := NormalizePriorities(raw)
	require.NotNil(t, sp)
	assert.Equal(t, []string{"Expanding stablecoin rails", "Launched crypto checkout"}, sp.CompanyContent)
	assert.Empty(t, sp.NewsAndPress)
}

func TestNormalizePriorities_FlatArray(t *testing.T) {
	sp := NormalizePriorities(json.RawMessage(`["A priority", "Another one"]`))
	require.NotNil(t, sp)
	assert.Equal(t, []string{"A priority", "Another one"}, sp.CompanyContent)
}

func TestNormalizePriorities_SocialAsStrings(t *testing.T) {
	raw := json.RawMessage(`{"news_and_press": [], "company_content": [], "social_media": ["posted about stablecoins"]}`)
	sp := NormalizePriorities(raw)
	require.NotNil(t, sp)
	require.Len(t, sp.SocialMedia, 1)
	assert.Equal(t, "posted about stablecoins", sp.SocialMedia[0].Text)
}

func TestNormalizePriorities_EmptyAndNull(t *testing.T) {
	assert.Nil(t, NormalizePriorities(nil))
	assert.Nil(t, NormalizePriorities(json.RawMessage(`null`)))
	assert.Nil(t, NormalizePriorities(json.RawMessage(`""`)))
}

func TestOverlayPriorities_AdapterDataWins(t *testing.T) {
	modelGuess := &model.StrategicPriorities{
		NewsAndPress:   []string{"model guess about news"},
		CompanyContent: []string{"model content guess"},
		SocialMedia:    []model.SocialItem{{Text: "model social"}},
	}
	sources := []model.NewsSource{{Title: "Acme raises Series B", URL: "https://techcrunch.com/acme"}}
	research := []string{"Expanding to LATAM (https://src)"}
	social := []model.SocialItem{{Text: "real tweet", URL: "https://x.com/1"}}

	got := overlayPriorities(modelGuess, sources, research, social)

	require.NotNil(t, got)
	assert.Equal(t, []string{"Acme raises Series B"}, got.NewsAndPress)
	assert.Equal(t, research, got.CompanyContent)
	assert.Equal(t, social, got.SocialMedia)
}

func TestOverlayPriorities_ModelFillsEmptyBuckets(t *testing.T) {
	modelGuess := &model.StrategicPriorities{
		NewsAndPress:   []string{"model news guess"},
		CompanyContent: []string{"model content guess"},
	}

	got := overlayPriorities(modelGuess, nil, []string{"real research bullet"}, nil)

	require.NotNil(t, got)
	assert.Equal(t, []string{"real research bullet"}, got.CompanyContent)
	// The news bucket stays with the model when the news search found nothing.
	assert.Equal(t, []string{"model news guess"}, got.NewsAndPress)
}

func TestOverlayPriorities_NilModelGuess(t *testing.T) {
	got := overlayPriorities(nil,
		[]model.NewsSource{{Title: "headline", URL: "https://a"}},
		[]string{"bullet"}, nil)
	require.NotNil(t, got)
	assert.Equal(t, []string{"headline"}, got.NewsAndPress)
	assert.Equal(t, []string{"bullet"}, got.CompanyContent)

	assert.Nil(t, overlayPriorities(nil, nil, nil, nil))
}
