package scrape

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeRejectsInvalidURL(t *testing.T) {
	svc, err := NewService(nil)
	require.NoError(t, err)

	cases := []string{
		"",
		"   ",
		"not a url",
		"acme.example/no-scheme",
		"ftp://acme.example/",
		"http://",
		"javascript:alert(1)",
	}
	for _, raw := range cases {
		_, err := svc.Scrape(context.Background(), Params{URL: raw})
		assert.Error(t, err, "url %q", raw)
	}
}

func TestScrapeInvalidURLMapsToBadRequest(t *testing.T) {
	svc, err := NewService(nil)
	require.NoError(t, err)

	_, err = svc.Scrape(context.Background(), Params{URL: "not a url"})
	require.Error(t, err)
	// the handler routes this message to a 400
	assert.Contains(t, err.Error(), "invalid URL")
}
