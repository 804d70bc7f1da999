package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `
<html><body>
<div data-job-id="4011223344">
  <a>Senior Go Engineer</a>
  <span>Initech &middot; Remote</span>
</div>
<div data-job-id="e8f2a9c1">
  <a>Staff Engineer</a>
  <span>Promoted</span>
</div>
<div data-job-id="4055667788">
  <a>Platform Engineer</a>
  <ul>
    <li class="job-card-container__footer-job-state">Applied</li>
  </ul>
</div>
<div data-job-id="4099887766">
  <a>Clearance Required Analyst</a>
  <span>DefenseCo</span>
</div>
</body></html>`

func TestParseCards(t *testing.T) {
	cards, err := ParseCards(resultsPage)
	require.NoError(t, err)
	require.Len(t, cards, 4)

	assert.Equal(t, "4011223344", cards[0].JobID)
	assert.Contains(t, cards[0].Text, "Senior Go Engineer")
	assert.Contains(t, cards[0].Text, "Initech")
	assert.False(t, cards[0].Applied)
	assert.False(t, cards[0].Promoted())

	assert.True(t, cards[1].Promoted(), "non-numeric id marks a promoted card")

	assert.True(t, cards[2].Applied, "footer badge marks an applied card")
}

func TestParseCards_Empty(t *testing.T) {
	cards, err := ParseCards("<html><body><p>No results</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestScreen(t *testing.T) {
	cards, err := ParseCards(resultsPage)
	require.NoError(t, err)

	f := Filter{Companies: []string{"DefenseCo"}}
	seen := func(id string) bool { return false }

	ids, dismiss := Screen(cards, f, seen)

	assert.Equal(t, []string{"4011223344"}, ids,
		"promoted, applied and blacklisted cards are all screened out")
	assert.Equal(t, []string{"4055667788"}, dismiss)
}

func TestScreen_SeenGoesToDismiss(t *testing.T) {
	cards := []Card{{JobID: "123", Text: "Go Engineer"}}
	ids, dismiss := Screen(cards, Filter{}, func(id string) bool { return id == "123" })

	assert.Empty(t, ids)
	assert.Equal(t, []string{"123"}, dismiss)
}

func TestScreen_DedupesWithinPage(t *testing.T) {
	cards := []Card{
		{JobID: "123", Text: "Go Engineer"},
		{JobID: "123", Text: "Go Engineer"},
		{JobID: "456", Text: "SRE"},
	}
	ids, _ := Screen(cards, Filter{}, nil)
	assert.Equal(t, []string{"123", "456"}, ids)
}

func TestFilterBanned(t *testing.T) {
	f := Filter{Companies: []string{"Initech"}, Titles: []string{"Manager"}}

	word, banned := f.Banned("Engineering Manager at Globex")
	assert.True(t, banned)
	assert.Equal(t, "Manager", word)

	word, banned = f.Banned("Senior Engineer at INITECH")
	assert.True(t, banned, "matching is case-insensitive")
	assert.Equal(t, "Initech", word)

	_, banned = f.Banned("Senior Engineer at Globex")
	assert.False(t, banned)
}
