package answers

import (
	"log"
	"math/rand"
	"strings"
	"time"

	"easyapply-engine/internal/domain"
)

// Placeholder is recorded when no rule matches, so the operator can spot the
// gap in qa.csv and backfill a real answer for the next run.
const Placeholder = "2"

// Resolver maps a form question to an answer. Total: it always produces a
// value. The bank is consulted first so answers stay sticky, then an ordered
// rule list; order is policy, not accident — the generic "do you ..." rule
// would otherwise swallow questions the earlier rules answer properly.
type Resolver struct {
	Profile domain.Profile
	Bank    *Bank
	Rand    *rand.Rand
	Now     func() time.Time
	// Grace runs after an unanswerable question, giving an attended run a
	// moment to intervene by hand. Nil skips the pause.
	Grace func()
}

func NewResolver(profile domain.Profile, bank *Bank) *Resolver {
	return &Resolver{
		Profile: profile,
		Bank:    bank,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:     time.Now,
		Grace:   func() { time.Sleep(5 * time.Second) },
	}
}

func (r *Resolver) Resolve(question string) string {
	q := Normalize(question)

	if a, ok := r.Bank.Lookup(q); ok {
		return a
	}

	a, ok := r.derive(q)
	if !ok {
		log.Printf("[answers] could not auto-answer %q, using placeholder", q)
		a = Placeholder
		if r.Grace != nil {
			r.Grace()
		}
	} else {
		log.Printf("[answers] answering %q with %q", q, a)
	}

	r.Bank.Record(q, a)
	return a
}

// derive evaluates the rule groups in priority order; first match wins.
func (r *Resolver) derive(q string) (string, bool) {
	p := r.Profile

	switch {
	// Language proficiency.
	case has(q, "english") && has(q, "speak", "communicate"):
		return "Yes", true
	case has(q, "english") && has(q, "proficiency", "level"):
		return "Native", true

	// Quantitative experience.
	case has(q, "how many", "how much", "enter a decimal number"):
		return pick(r.Rand, "6", "5", "4", "3"), true
	case has(q, "rate") && has(q, "yourself", "proficient", "proficiency"):
		return "10", true

	// Compensation.
	case has(q, "hourly") && has(q, "rate", "salary", "what"):
		return p.HourlyRate, p.HourlyRate != ""
	case has(q, "salary"):
		return p.Salary, p.Salary != ""

	// Work authorization, sponsorship, clearance, citizenship.
	case has(q, "sponsor", "sponsorship"):
		return "No", true
	case has(q, "work") && has(q, "authorization", "authorized"):
		return "Yes", true
	case has(q, "are you legally"):
		return "Yes", true
	case has(q, "clearance") && has(q, "eligible", "able", "have", "obtain", "obtained"):
		return "Yes", true
	case has(q, "citizen", "green card") && has(q, "us", "u.s.", "green"):
		return "Yes", true
	case has(q, "w2", "w-2"):
		return "Yes", true
	case has(q, "criminal", "felon", "charged"):
		return "No", true
	case has(q, "drug test") && has(q, "positive"):
		return "No", true
	case has(q, "drug test"):
		return "Yes", true
	case has(q, "privacy policy"):
		return "I agree", true
	case has(q, "how did you hear"):
		return "Other", true
	case has(q, "refer", "referred"):
		return "N/A", true
	case has(q, "commute") && has(q, "can you"):
		return "Yes", true
	case has(q, "currently reside"):
		return "Yes", true

	// Earliest start / date questions answer with today's date.
	case has(q, "date") && has(q, "earliest", "start", "mm/dd/yyyy", "format"):
		return r.Now().Format("01/02/2006"), true

	// Identity fields, verbatim from the profile.
	case has(q, "city", "address"):
		return p.City, p.City != ""
	case has(q, "zip", "postal", "area code"):
		return p.Zip, p.Zip != ""
	case has(q, "first"):
		return p.FirstName, p.FirstName != ""
	case has(q, "last"):
		return p.LastName, p.LastName != ""
	case has(q, "your name"):
		return p.FullName(), p.FullName() != ""
	case has(q, "github"):
		return p.GitHub, p.GitHub != ""
	case has(q, "linkedin"):
		return p.LinkedIn, p.LinkedIn != ""
	case has(q, "portfolio", "personal website"):
		return p.Portfolio, p.Portfolio != ""
	case has(q, "phone") && has(q, "mobile", "number"):
		return p.Phone, p.Phone != ""

	// Demographic self-identification, verbatim from the profile.
	case has(q, "disability"):
		return p.Disability, p.Disability != ""
	case has(q, "gender"):
		return p.Gender, p.Gender != ""
	case has(q, "race", "ethnicity", "nationality"):
		return p.Race, p.Race != ""
	case has(q, "lgbtq"):
		return p.LGBTQ, p.LGBTQ != ""
	case has(q, "veteran", "government"):
		return p.Veteran, p.Veteran != ""

	// Generic affirmative catch-all.
	case has(q, "do you", "did you", "have you", "are you"):
		return "Yes", true
	}

	return "", false
}

func has(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}

func pick(rng *rand.Rand, choices ...string) string {
	return choices[rng.Intn(len(choices))]
}
