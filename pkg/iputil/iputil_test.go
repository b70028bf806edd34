package iputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical_ValidAddresses(t *testing.T) {
	got, ok := Canonical(" 8.8.8.8 ")
	assert.True(t, ok)
	assert.Equal(t, "8.8.8.8", got)

	got, ok = Canonical("::1")
	assert.True(t, ok)
	assert.Equal(t, "::1", got)

	// IPv6 normalizes to its compressed form.
	got, ok = Canonical("2001:0db8:0000:0000:0000:0000:0000:0001")
	assert.True(t, ok)
	assert.Equal(t, "2001:db8::1", got)
}

func TestCanonical_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"256.1.1.1",
		"8.8.8",
		"not-an-ip",
		"nan",
		"None",
		"fe80::1%eth0",
	} {
		_, ok := Canonical(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	for _, raw := range []string{"8.8.8.8", "::1", "2001:db8::1", "010.1.1.1"} {
		first, ok := Canonical(raw)
		if !ok {
			continue
		}
		second, ok := Canonical(first)
		assert.True(t, ok)
		assert.Equal(t, first, second)
	}
}
