package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Category string `json:"category"`
	Tone     string `json:"tone"`
}

func TestDecodeJSONPlain(t *testing.T) {
	var p payload
	require.NoError(t, DecodeJSON(`{"category":"restaurant","tone":"warm"}`, &p))
	assert.Equal(t, "restaurant", p.Category)
}

func TestDecodeJSONFenced(t *testing.T) {
	content := "```json\n{\"category\": \"saas\", \"tone\": \"confident\"}\n```"
	var p payload
	require.NoError(t, DecodeJSON(content, &p))
	assert.Equal(t, "saas", p.Category)
	assert.Equal(t, "confident", p.Tone)
}

func TestDecodeJSONRepairsSingleQuotes(t *testing.T) {
	var p payload
	require.NoError(t, DecodeJSON(`{'category': 'blog', 'tone': 'casual'}`, &p))
	assert.Equal(t, "blog", p.Category)
}

func TestDecodeJSONRepairsTrailingComma(t *testing.T) {
	var p payload
	require.NoError(t, DecodeJSON(`{"category":"portfolio","tone":"minimal",}`, &p))
	assert.Equal(t, "portfolio", p.Category)
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	var p payload
	assert.Error(t, DecodeJSON("the site is probably a restaurant", &p))
}

func TestUnfence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Unfence(tc.in))
	}
}
