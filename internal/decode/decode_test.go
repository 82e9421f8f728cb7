package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestObject_PlainJSON(t *testing.T) {
	var p payload
	require.NoError(t, Object(`{"name": "acme", "count": 3}`, &p))
	assert.Equal(t, payload{Name: "acme", Count: 3}, p)
}

func TestObject_FencedBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"name\": \"acme\"}\n```\nHope that helps."
	var p payload
	require.NoError(t, Object(text, &p))
	assert.Equal(t, "acme", p.Name)
}

func TestObject_FenceWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"name\": \"acme\"}\n```"
	var p payload
	require.NoError(t, Object(text, &p))
	assert.Equal(t, "acme", p.Name)
}

func TestObject_BraceBlockInProse(t *testing.T) {
	text := `Sure. Based on my research the answer is {"name": "acme", "count": 1} as requested.`
	var p payload
	require.NoError(t, Object(text, &p))
	assert.Equal(t, 1, p.Count)
}

func TestObject_NoJSON(t *testing.T) {
	var p payload
	err := Object("I am unable to answer that.", &p)
	require.ErrorIs(t, err, ErrNoJSON)
}

func TestObject_Empty(t *testing.T) {
	var p payload
	require.ErrorIs(t, Object("", &p), ErrNoJSON)
	require.ErrorIs(t, Object("   \n ", &p), ErrNoJSON)
}

func TestObject_MalformedBlock(t *testing.T) {
	var p payload
	err := Object(`prefix {"name": "acme", } suffix`, &p)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJSON)
}

func TestArray_PlainJSON(t *testing.T) {
	var items []string
	require.NoError(t, Array(`["a", "b"]`, &items))
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestArray_BracketBlockInProse(t *testing.T) {
	var items []payload
	text := `The companies are: [{"name": "acme"}, {"name": "globex"}] according to my search.`
	require.NoError(t, Array(text, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "globex", items[1].Name)
}

func TestArray_NoJSON(t *testing.T) {
	var items []string
	require.ErrorIs(t, Array("no companies found", &items), ErrNoJSON)
}
