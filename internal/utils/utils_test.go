package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanUTF8(t *testing.T) {
	cleaned, changed := CleanUTF8("Ely")
	assert.Equal(t, "Ely", cleaned)
	assert.False(t, changed)

	cleaned, changed = CleanUTF8("E\x00ly\xff")
	assert.Equal(t, "Ely", cleaned)
	assert.True(t, changed)
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "St Mary", CleanCell("  St Mary "))
	assert.Equal(t, "", CleanCell(" \t"))
}

func TestHashFields(t *testing.T) {
	bells := 8
	empty := ""

	a := HashFields(map[string]any{"district": "E", "bells": &bells})
	b := HashFields(map[string]any{"bells": 8, "district": "E", "q": &empty})
	c := HashFields(map[string]any{"district": "C", "bells": &bells})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
	assert.Equal(t, HashFields(nil), HashFields(map[string]any{"report": nil}))
}
