package apply

import (
	"math/rand"
	"strings"
)

// MatchOption implements the two deterministic tiers of the option-selection
// policy: exact case-insensitive equality first, then first option containing
// the answer as a substring. The random third tier lives with the caller so
// each tier stays testable on its own.
func MatchOption(answer string, values []string) (int, bool) {
	a := strings.ToLower(strings.TrimSpace(answer))
	if a == "" {
		return 0, false
	}
	for i, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(answer)) {
			return i, true
		}
	}
	for i, v := range values {
		if strings.Contains(strings.ToLower(v), a) {
			return i, true
		}
	}
	return 0, false
}

// randomIndex is the last-resort tier: uniform pick among n options.
func randomIndex(rng *rand.Rand, n int) int {
	if n <= 1 {
		return 0
	}
	return rng.Intn(n)
}
