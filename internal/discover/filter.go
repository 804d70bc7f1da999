package discover

import (
	"log"
	"strings"
)

// Filter holds the blacklists threaded in from config. Always passed
// explicitly — never package state.
type Filter struct {
	Companies []string
	Titles    []string
}

// Banned reports the first blacklisted word the text contains,
// case-insensitively.
func (f Filter) Banned(text string) (string, bool) {
	t := strings.ToLower(text)
	for _, word := range append(append([]string{}, f.Companies...), f.Titles...) {
		w := strings.ToLower(strings.TrimSpace(word))
		if w == "" {
			continue
		}
		if strings.Contains(t, w) {
			return word, true
		}
	}
	return "", false
}

// Screen decides skip vs. enqueue for one page of cards: already-applied
// and already-seen cards go on the dismiss list, blacklisted and promoted
// cards are dropped, and the survivors come back as unique job ids in page
// order.
func Screen(cards []Card, f Filter, seen func(string) bool) (ids []string, dismiss []string) {
	onPage := map[string]bool{}

	for _, c := range cards {
		if c.Applied || (isNumeric(c.JobID) && seen != nil && seen(c.JobID)) {
			log.Printf("[discover] already applied, dismissing: %s", c.JobID)
			dismiss = append(dismiss, c.JobID)
			continue
		}
		if word, banned := f.Banned(c.Text); banned {
			log.Printf("[discover] card has banned word %q: %.80s", word, c.Text)
			continue
		}
		if c.Promoted() {
			log.Printf("[discover] no numeric job id, likely a promoted card: %.80s", c.Text)
			continue
		}
		if onPage[c.JobID] {
			continue
		}
		onPage[c.JobID] = true
		ids = append(ids, c.JobID)
	}
	return ids, dismiss
}
