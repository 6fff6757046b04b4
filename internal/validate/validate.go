package validate

import (
	"regexp"
	"strings"
)

var (
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
)

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces a simple length window; strength policy is out of scope.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 64
}

// Qty normalizes a purchase/cart quantity: defaults to 1, clamps abuse.
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

func Rating(n int) bool { return n >= 1 && n <= 5 }

func Title(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 100
}

func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 255
}

// Comment trims and caps review text; empty is allowed.
func Comment(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 1000 {
		s = s[:1000]
	}
	return s
}
