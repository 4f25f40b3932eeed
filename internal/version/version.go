// Package version implements the simplified version comparison used for
// outdated detection, plus the caret normalization applied to manifest writes.
package version

import (
	"strconv"
	"strings"
)

// IsOutdated reports whether latest is numerically newer than declared.
//
// Both inputs are reduced to their digits and dots, split on ".", and
// compared component by component with missing components treated as 0.
// Operators, ranges, and pre-release suffixes are ignored entirely; an
// input that reduces to nothing never counts as outdated.
func IsOutdated(declared, latest string) bool {
	d := extract(declared)
	l := extract(latest)
	if d == "" || l == "" {
		return false
	}

	dParts := strings.Split(d, ".")
	lParts := strings.Split(l, ".")

	n := len(dParts)
	if len(lParts) > n {
		n = len(lParts)
	}

	for i := 0; i < n; i++ {
		dn := component(dParts, i)
		ln := component(lParts, i)
		if ln > dn {
			return true
		}
		if dn > ln {
			return false
		}
	}
	return false
}

// NormalizeConstraint coerces a version into caret form: one leading "^"
// or "~" is removed and "^" is prepended. Every manifest write goes
// through this, so an exact version requested upstream still lands as a
// caret constraint.
func NormalizeConstraint(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "^") || strings.HasPrefix(v, "~") {
		v = v[1:]
	}
	return "^" + v
}

// extract strips every rune except digits and dots.
func extract(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// component returns the numeric value at index i, or 0 when the index is
// past the end or the component does not parse.
func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}
