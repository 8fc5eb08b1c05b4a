// Package versions offers helpers for comparing and bumping version strings.
package versions

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// MaxVersion returns the numerically largest version string.
// Supports arbitrary numbers of dot-separated numeric segments like "1.2.3.4".
// Returns an error if no valid versions found.
func MaxVersion(vs []string) (string, error) {
	if len(vs) == 0 {
		return "", fmt.Errorf("no versions provided")
	}

	var best string
	var found bool

	for _, v := range vs {
		if v == "" {
			continue
		}
		if !IsValidVersion(v) {
			return "", fmt.Errorf("invalid version: %q", v)
		}
		if !found {
			best = v
			found = true
			continue
		}
		if Compare(v, best) > 0 {
			best = v
		}
	}

	if !found {
		return "", fmt.Errorf("no valid versions found")
	}
	return best, nil
}

// Compare returns 1 if a > b, -1 if a < b, 0 if equal.
// Comparison is numeric per segment; missing segments are treated as 0.
// Example: "1.10" > "1.2"; "1.2" == "1.2.0"
func Compare(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := max(len(as), len(bs))

	for i := 0; i < n; i++ {
		sa, sb := "0", "0"
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}

		ai, bi := new(big.Int), new(big.Int)
		ai.SetString(sa, 10)
		bi.SetString(sb, 10)

		switch ai.Cmp(bi) {
		case 1:
			return 1
		case -1:
			return -1
		}
	}
	return 0
}

// IsValidVersion ensures only digits and dots, and no empty segments like "1..2".
func IsValidVersion(v string) bool {
	if v == "" {
		return false
	}
	parts := strings.Split(v, ".")
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return false
			}
		}
	}
	return true
}
