// Package iputil normalizes raw IP address strings into canonical form.
package iputil

import (
	"net/netip"
	"strings"
)

// Canonical trims and parses raw as an IPv4 or IPv6 address and returns
// its canonical string form. The second return is false for empty,
// missing-marker or malformed input. Canonical output round-trips:
// Canonical(Canonical(x)) == Canonical(x).
func Canonical(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	// CSV loaders commonly stringify missing cells.
	switch strings.ToLower(s) {
	case "nan", "none", "null", "<na>":
		return "", false
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "", false
	}
	// Reject zone-qualified addresses, they never resolve upstream.
	if addr.Zone() != "" {
		return "", false
	}
	return addr.String(), true
}
