package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", TruncateUTF8("short", 100))
	assert.Equal(t, "abc", TruncateUTF8("abcdef", 3))
	assert.Equal(t, "", TruncateUTF8("abc", 0))
}

func TestTruncateUTF8KeepsRunesWhole(t *testing.T) {
	// é is two bytes; cutting mid-rune must back off to the boundary
	s := "café menu"
	out := TruncateUTF8(s, 4)
	assert.Equal(t, "caf", out)
	assert.True(t, utf8.ValidString(out))

	long := strings.Repeat("日本語", 100)
	for n := 0; n < 12; n++ {
		assert.True(t, utf8.ValidString(TruncateUTF8(long, n)), "cut at %d", n)
	}
}
