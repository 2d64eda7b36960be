package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reID = regexp.MustCompile(`^[A-Za-z0-9_\-.]{1,64}$`)
	reQ  = regexp.MustCompile(`^[A-Za-z0-9 _'\-]{1,50}$`)
)

// ID validates resource identifiers (products, sellers, buyers, orders,
// transactions).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Q validates a product search query: trims, enforces allowed characters
// and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// Limit parses a feed limit with a default of 10, clamped to avoid abuse.
func Limit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 10
	}
	if n > 100 {
		return 100
	}
	return n
}
