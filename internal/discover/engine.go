package discover

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"easyapply-engine/internal/apply"
	"easyapply-engine/internal/domain"

	"golang.org/x/time/rate"
)

// maxCombos guards against runaway position×location cross-products.
const maxCombos = 500

const alreadyAppliedMarker = "you applied on"

// Recorder persists per-job outcomes. Seen answers from durable history so
// jobs are never re-attempted across runs.
type Recorder interface {
	Seen(jobID string) (bool, error)
	RecordResult(res domain.ApplicationResult) error
	RecordSubmission(res domain.ApplicationResult, jobURL string) error
}

// CardDismisser is implemented by surfaces that can dismiss an
// already-applied card in the results list.
type CardDismisser interface {
	DismissCard(ctx context.Context, jobID string) error
}

type pair struct {
	position string
	location string
}

// Engine owns the discovery loop: it walks randomized position×location
// combinations, pages through results, filters cards and hands survivors to
// the per-job apply routine.
type Engine struct {
	Surface   apply.Surface
	Filler    *apply.Dispatcher
	Submitter *apply.Submitter
	Clock     apply.Clock
	Recorder  Recorder
	// Pace throttles page navigations so the site is not hammered.
	Pace *rate.Limiter
	Rand *rand.Rand

	Positions  []string
	Locations  []string
	Experience []int
	TimeFilter int
	// PairBudget is the max search time spent per position×location pair.
	PairBudget time.Duration
	Filter     Filter
	Phone      string

	// OnResult, when set, observes every recorded outcome (status feed).
	OnResult func(domain.ApplicationResult)
	// OnSearch, when set, observes every position×location pair started.
	OnSearch func(position, location string)

	visited map[string]bool
}

// Run works through the randomized cross-product until it is exhausted or
// the combination cap is hit.
func (e *Engine) Run(ctx context.Context) error {
	if e.visited == nil {
		e.visited = make(map[string]bool)
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.Clock == nil {
		e.Clock = apply.SystemClock()
	}

	combos := make([]pair, 0, len(e.Positions)*len(e.Locations))
	for _, p := range e.Positions {
		for _, l := range e.Locations {
			combos = append(combos, pair{position: p, location: l})
		}
	}
	e.Rand.Shuffle(len(combos), func(i, j int) { combos[i], combos[j] = combos[j], combos[i] })

	for i, c := range combos {
		if i >= maxCombos {
			log.Printf("[discover] combination cap (%d) reached, stopping", maxCombos)
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("[discover] searching %q in %q", c.position, c.location)
		if e.OnSearch != nil {
			e.OnSearch(c.position, c.location)
		}
		e.searchPair(ctx, c.position, c.location)
	}
	return nil
}

// searchPair pages through one position×location search until its time
// budget runs out. Any single page's failure is logged and the loop moves to
// the next page.
func (e *Engine) searchPair(ctx context.Context, position, location string) {
	deadline := e.Clock.Now().Add(e.PairBudget)
	start := 0

	for e.Clock.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}
		left := deadline.Sub(e.Clock.Now())
		log.Printf("[discover] %s left in this search", left.Round(time.Minute))

		if err := e.processPage(ctx, position, location, start); err != nil {
			log.Printf("[discover] page start=%d failed: %v", start, err)
		}
		start += resultsPerPage
	}
}

func (e *Engine) processPage(ctx context.Context, position, location string, start int) error {
	if err := e.pace(ctx); err != nil {
		return err
	}
	if err := e.Surface.Navigate(ctx, SearchURL(position, location, start, e.Experience, e.TimeFilter)); err != nil {
		return fmt.Errorf("navigate results: %w", err)
	}
	// Force lazy-loaded cards to materialize before snapshotting.
	if err := e.Surface.LoadPage(ctx); err != nil {
		log.Printf("[discover] scroll: %v", err)
	}

	src, err := e.Surface.PageSource(ctx)
	if err != nil {
		return fmt.Errorf("page source: %w", err)
	}
	cards, err := ParseCards(src)
	if err != nil {
		return fmt.Errorf("parse cards: %w", err)
	}

	ids, dismiss := Screen(cards, e.Filter, e.seen)

	if d, ok := e.Surface.(CardDismisser); ok {
		for _, id := range dismiss {
			if err := d.DismissCard(ctx, id); err != nil {
				log.Printf("[discover] dismiss %s: %v", id, err)
			}
		}
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.ApplyToJob(ctx, id)
	}
	return nil
}

func (e *Engine) seen(jobID string) bool {
	if e.visited[jobID] {
		return true
	}
	if e.Recorder == nil {
		return false
	}
	seen, err := e.Recorder.Seen(jobID)
	if err != nil {
		log.Printf("[discover] history lookup %s: %v", jobID, err)
		return false
	}
	return seen
}

// ApplyToJob runs the per-job routine: open the listing, find the Easy Apply
// entry point, prefill contact info, drive the submission machine and record
// the outcome. Exactly one result row per job id per run.
func (e *Engine) ApplyToJob(ctx context.Context, jobID string) {
	if e.visited == nil {
		e.visited = make(map[string]bool)
	}
	if e.seen(jobID) {
		log.Printf("[discover] %s already processed, skipping", jobID)
		return
	}
	e.visited[jobID] = true

	if err := e.pace(ctx); err != nil {
		return
	}
	if err := e.Surface.Navigate(ctx, JobURL(jobID)); err != nil {
		log.Printf("[discover] open job %s: %v", jobID, err)
		return
	}
	if err := e.Surface.LoadPage(ctx); err != nil {
		log.Printf("[discover] load job %s: %v", jobID, err)
	}

	pageTitle, err := e.Surface.Title(ctx)
	if err != nil {
		log.Printf("[discover] title of %s: %v", jobID, err)
	}
	jobTitle, company := SplitTitle(pageTitle)

	now := time.Now()
	if e.Clock != nil {
		now = e.Clock.Now()
	}
	res := domain.ApplicationResult{
		Timestamp: now,
		JobID:     jobID,
		Title:     jobTitle,
		Company:   company,
	}

	switch {
	case e.titleBanned(pageTitle):
		log.Printf("[discover] %s: blacklisted keyword in title, skipping", jobID)

	case !e.Surface.Present(ctx, apply.ActionEasyApply):
		if e.pageContains(ctx, alreadyAppliedMarker) {
			log.Printf("[discover] %s: already applied", jobID)
		} else {
			log.Printf("[discover] %s: no Easy Apply button", jobID)
		}

	default:
		res.Attempted = true
		if err := e.Surface.Click(ctx, apply.ActionEasyApply); err != nil {
			log.Printf("[discover] %s: Easy Apply click: %v", jobID, err)
			res.Attempted = false
			break
		}
		e.Filler.PrefillPhone(ctx, e.Surface, e.Phone)
		res.Submitted = e.Submitter.Run(ctx)
	}

	if res.Submitted {
		log.Printf("[discover] applied to %s (%s at %s)", jobID, res.Title, res.Company)
	} else {
		log.Printf("[discover] did not apply to %s", jobID)
	}

	e.record(res)
}

func (e *Engine) record(res domain.ApplicationResult) {
	if e.Recorder != nil {
		if err := e.Recorder.RecordResult(res); err != nil {
			log.Printf("[discover] record result %s: %v", res.JobID, err)
		}
		if res.Submitted {
			if err := e.Recorder.RecordSubmission(res, JobURL(res.JobID)); err != nil {
				log.Printf("[discover] record submission %s: %v", res.JobID, err)
			}
		}
	}
	if e.OnResult != nil {
		e.OnResult(res)
	}
}

func (e *Engine) titleBanned(pageTitle string) bool {
	t := strings.ToLower(pageTitle)
	for _, word := range e.Filter.Titles {
		w := strings.ToLower(strings.TrimSpace(word))
		if w != "" && strings.Contains(t, w) {
			return true
		}
	}
	return false
}

func (e *Engine) pageContains(ctx context.Context, marker string) bool {
	src, err := e.Surface.PageSource(ctx)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(src), marker)
}

func (e *Engine) pace(ctx context.Context) error {
	if e.Pace == nil {
		return nil
	}
	return e.Pace.Wait(ctx)
}

var (
	reTitlePart   = regexp.MustCompile(`\(?\d?\)?\s?(\w.*)`)
	reCompanyPart = regexp.MustCompile(`(\w.*)`)
)

// SplitTitle extracts job title and company from a browser title shaped like
// "(3) Senior Gopher | Initech | LinkedIn". Missing pieces come back empty.
func SplitTitle(pageTitle string) (jobTitle, company string) {
	parts := strings.Split(pageTitle, " | ")
	if len(parts) > 0 {
		if m := reTitlePart.FindStringSubmatch(parts[0]); len(m) == 2 {
			jobTitle = strings.TrimSpace(m[1])
		}
	}
	if len(parts) > 1 {
		if m := reCompanyPart.FindStringSubmatch(parts[1]); len(m) == 2 {
			company = strings.TrimSpace(m[1])
		}
	}
	return jobTitle, company
}
