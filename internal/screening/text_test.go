package screening

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	s := strings.Repeat("a", 9) + "éé"

	for max := 9; max <= 13; max++ {
		out := truncateUTF8(s, max)
		assert.True(t, utf8.ValidString(out), "max=%d", max)
		assert.LessOrEqual(t, len(out), max, "max=%d", max)
	}

	assert.Equal(t, strings.Repeat("a", 9), truncateUTF8(s, 10))
	assert.Equal(t, "héllo", truncateUTF8("héllo", 50))
}
