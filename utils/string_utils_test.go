package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStockCode(t *testing.T) {
	cases := map[string]string{
		"100":       "100",
		"100-5":     "100",
		" 100 ":     "100",
		"ABC00123X": "00123",
		"SKU-42-7":  "42",
		"":          "",
		"no-digits": "",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeStockCode(raw), "raw=%q", raw)
	}
}

func TestNormalizeStockCodeIsIdempotent(t *testing.T) {
	for _, raw := range []string{"100-5", "X7", "0042/1", "abc"} {
		once := NormalizeStockCode(raw)
		assert.Equal(t, once, NormalizeStockCode(once))
	}
}

func TestPointerToString(t *testing.T) {
	s := "world"
	assert.Equal(t, "world", PointerToString(&s, "-"))
	assert.Equal(t, "-", PointerToString(nil, "-"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Tastic", Truncate("Tastic Rice 10kg", 6))
	assert.Equal(t, "Rice", Truncate("Rice", 12))
}
