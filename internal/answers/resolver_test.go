package answers

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"easyapply-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() domain.Profile {
	return domain.Profile{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		City:       "Austin",
		Zip:        "78701",
		GitHub:     "https://github.com/ada",
		LinkedIn:   "https://linkedin.com/in/ada",
		Portfolio:  "https://ada.dev",
		Phone:      "5551234567",
		Gender:     "Female",
		Race:       "Prefer not to say",
		Disability: "No",
		Veteran:    "I am not",
		LGBTQ:      "Prefer not to say",
		Salary:     "95000",
		HourlyRate: "45",
	}
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	bank := LoadBank(filepath.Join(t.TempDir(), "qa.csv"))
	r := NewResolver(testProfile(), bank)
	r.Rand = rand.New(rand.NewSource(1))
	r.Now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	r.Grace = nil
	return r
}

func TestResolve_RuleOrderDeterminism(t *testing.T) {
	r := testResolver(t)

	// Matches both the English rule and the generic "do you" rule; the
	// English rule has priority.
	assert.Equal(t, "Yes", r.Resolve("Do you speak English?"))
	assert.Equal(t, "Native", r.Resolve("What is your English proficiency level?"))

	// "are you legally authorized to work" must not fall through to the
	// generic affirmative via "are you" — same answer, earlier rule, but the
	// sponsorship variant proves ordering.
	assert.Equal(t, "No", r.Resolve("Will you now or in the future require sponsorship? Are you?"))
}

func TestResolve_Totality(t *testing.T) {
	r := testResolver(t)
	for _, q := range []string{"", "   ", "völlig unbekannte frage", "qqqq"} {
		got := r.Resolve(q)
		assert.NotEmpty(t, got)
		assert.Equal(t, Placeholder, got)
	}
}

func TestResolve_ProfileFields(t *testing.T) {
	r := testResolver(t)
	assert.Equal(t, "Austin", r.Resolve("What city do you live in?"))
	assert.Equal(t, "78701", r.Resolve("Zip code"))
	assert.Equal(t, "Ada", r.Resolve("First name"))
	assert.Equal(t, "Lovelace", r.Resolve("Last name"))
	assert.Equal(t, "Ada Lovelace", r.Resolve("What is your name?"))
	assert.Equal(t, "https://github.com/ada", r.Resolve("GitHub URL"))
	assert.Equal(t, "5551234567", r.Resolve("Mobile phone number"))
}

func TestResolve_Demographics(t *testing.T) {
	r := testResolver(t)
	assert.Equal(t, "No", r.Resolve("Do you have a disability?"))
	assert.Equal(t, "Female", r.Resolve("What is your gender?"))
	assert.Equal(t, "Prefer not to say", r.Resolve("Race/ethnicity"))
	assert.Equal(t, "I am not", r.Resolve("Are you a protected veteran?"))
}

func TestResolve_Compensation(t *testing.T) {
	r := testResolver(t)
	assert.Equal(t, "45", r.Resolve("What is your hourly rate?"))
	assert.Equal(t, "95000", r.Resolve("Desired salary"))
}

func TestResolve_DateUsesClock(t *testing.T) {
	r := testResolver(t)
	assert.Equal(t, "08/28/2026", r.Resolve("What is the earliest date you can start?"))
}

func TestResolve_QuantitativeSeeded(t *testing.T) {
	r := testResolver(t)
	got := r.Resolve("How many years of Go experience do you have?")
	assert.Contains(t, []string{"6", "5", "4", "3"}, got)

	// Same seed, fresh resolver, fresh bank: same draw.
	r2 := testResolver(t)
	assert.Equal(t, got, r2.Resolve("How many years of Go experience do you have?"))
}

func TestResolve_IdempotentWithinRun(t *testing.T) {
	r := testResolver(t)
	q := "How many years of experience with Kubernetes?"

	first := r.Resolve(q)
	second := r.Resolve("  how MANY years of experience with Kubernetes? ")
	assert.Equal(t, first, second, "bank makes random answers sticky")

	data, err := os.ReadFile(r.Bank.path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2, "header plus exactly one appended row")
}

func TestResolve_BankOverridesRules(t *testing.T) {
	r := testResolver(t)
	r.Bank.Record("do you speak english?", "Fluently")
	assert.Equal(t, "Fluently", r.Resolve("Do you speak English?"))
}

func TestResolve_GenericAffirmative(t *testing.T) {
	r := testResolver(t)
	assert.Equal(t, "Yes", r.Resolve("Have you worked in a distributed team before?"))
	assert.Equal(t, "Yes", r.Resolve("Are you comfortable with on-call rotations?"))
}
