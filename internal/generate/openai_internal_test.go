package generate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 300))

	long := strings.Repeat("é", 299) + "日本語"
	got := preview(long, 300)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 300, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "日"))
}
