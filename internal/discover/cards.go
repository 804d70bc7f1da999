package discover

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Card is one listing on a search results page, as extracted from the
// rendered HTML.
type Card struct {
	JobID string
	// Text is the card's whole visible text blob, used for blacklist checks.
	Text string
	// Applied is the footer badge LinkedIn puts on cards already applied to.
	Applied bool
}

// Promoted cards carry a non-numeric (or empty) identifier; genuine listings
// always have a numeric job id.
func (c Card) Promoted() bool { return !isNumeric(c.JobID) }

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseCards pulls the job cards out of a results page snapshot.
func ParseCards(htmlSrc string) ([]Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, err
	}

	var cards []Card
	doc.Find("div[data-job-id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-job-id")
		c := Card{
			JobID: strings.TrimSpace(id),
			Text:  cleanText(sel.Text()),
		}
		sel.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			cls, _ := li.Attr("class")
			if strings.Contains(cls, "job-card-container__footer-job-state") &&
				strings.EqualFold(cleanText(li.Text()), "applied") {
				c.Applied = true
				return false
			}
			return true
		})
		cards = append(cards, c)
	})
	return cards, nil
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
