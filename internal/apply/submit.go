package apply

import (
	"context"
	"log"
	"strings"
	"time"
)

// sentMarker is the page text that signals a successful submission even when
// no submit control was clicked on this screen.
const sentMarker = "application was sent"

// Clock abstracts wall time so the submission budget is testable.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

func SystemClock() Clock { return systemClock{} }

// State is where the submission loop currently stands, for logging and the
// status feed; the loop itself branches on screen probes.
type State string

const (
	StateAwaiting        State = "awaiting_action"
	StateFollowPrompt    State = "follow_prompt"
	StateSubmitReady     State = "submit_ready"
	StateValidationError State = "validation_error"
	StateNextStep        State = "next_step"
	StateContinuePrompt  State = "continue_prompt"
	StateReviewStep      State = "review_step"
	StateSubmitted       State = "submitted"
	StateAborted         State = "aborted"
)

type questionOutcome int

const (
	questionsSubmitted questionOutcome = iota
	questionsAborted
	questionsResolved
)

// Submitter drives the multi-screen flow to SUBMITTED or ABORTED. One
// wall-clock budget covers the whole machine from entry, whatever state it
// is in.
type Submitter struct {
	Surface Surface
	Filler  *Dispatcher
	Clock   Clock
	// Budget defaults to 5 minutes.
	Budget time.Duration
	// StepDelay paces screen transitions. Defaults to 2s.
	StepDelay time.Duration
	// QuestionDelay paces validation-error fill passes. Defaults to 5s.
	QuestionDelay time.Duration
}

func NewSubmitter(s Surface, filler *Dispatcher) *Submitter {
	return &Submitter{
		Surface:       s,
		Filler:        filler,
		Clock:         SystemClock(),
		Budget:        5 * time.Minute,
		StepDelay:     2 * time.Second,
		QuestionDelay: 5 * time.Second,
	}
}

// Run loops until a terminal state and returns submitted = (terminal ==
// SUBMITTED). Never panics past its boundary; an exhausted budget or a
// cancelled context means ABORTED, not an error.
func (s *Submitter) Run(ctx context.Context) bool {
	deadline := s.Clock.Now().Add(s.Budget)

	for s.Clock.Now().Before(deadline) {
		if ctx.Err() != nil {
			log.Printf("[submit] context cancelled, aborting")
			return false
		}
		s.Clock.Sleep(s.StepDelay)

		// Unfollow prompts are handled in the same iteration as whatever
		// else the screen offers: the default action opts out of following.
		if s.Surface.Present(ctx, ActionFollow) {
			log.Printf("[submit] state=%s: unfollowing company", StateFollowPrompt)
			if err := s.Surface.Click(ctx, ActionFollow); err != nil {
				log.Printf("[submit] unfollow: %v", err)
			}
		}

		switch {
		case s.Surface.Present(ctx, ActionSubmit):
			log.Printf("[submit] state=%s: submitting", StateSubmitReady)
			if err := s.Surface.Click(ctx, ActionSubmit); err != nil {
				log.Printf("[submit] submit click: %v", err)
				continue
			}
			return true

		case s.Surface.HasValidationError(ctx):
			if s.applicationSent(ctx) {
				log.Printf("[submit] state=%s: page reports application sent", StateSubmitted)
				return true
			}
			switch s.answerUntilResolved(ctx, deadline) {
			case questionsSubmitted:
				return true
			case questionsAborted:
				return false
			case questionsResolved:
				// Errors cleared; fall through and let the main loop find
				// the next control.
			}

		case s.Surface.Present(ctx, ActionNext):
			log.Printf("[submit] state=%s: advancing", StateNextStep)
			s.click(ctx, ActionNext)

		case s.Surface.Present(ctx, ActionContinue):
			log.Printf("[submit] state=%s: continuing", StateContinuePrompt)
			s.click(ctx, ActionContinue)

		case s.Surface.Present(ctx, ActionReview):
			log.Printf("[submit] state=%s: reviewing", StateReviewStep)
			s.click(ctx, ActionReview)

		default:
			log.Printf("[submit] state=%s: no known control on screen", StateAwaiting)
		}
	}

	log.Printf("[submit] state=%s: budget exhausted", StateAborted)
	return false
}

// answerUntilResolved is the bounded sub-loop behind a validation-error
// screen: run a dispatcher pass over every visible question, then re-check
// for the success signal, for the Easy Apply entry point reappearing (the
// attempt was reset), or for the errors clearing. Anything else keeps
// looping until the machine's deadline.
func (s *Submitter) answerUntilResolved(ctx context.Context, deadline time.Time) questionOutcome {
	log.Printf("[submit] state=%s: answering outstanding questions", StateValidationError)

	for {
		s.Clock.Sleep(s.QuestionDelay)
		s.Filler.FillScreen(ctx, s.Surface)

		if s.applicationSent(ctx) {
			log.Printf("[submit] application sent after answering questions")
			return questionsSubmitted
		}
		if s.Surface.Present(ctx, ActionEasyApply) {
			log.Printf("[submit] Easy Apply entry point reappeared, attempt was reset")
			return questionsAborted
		}
		if !s.Clock.Now().Before(deadline) {
			log.Printf("[submit] state=%s: question loop exceeded budget", StateAborted)
			return questionsAborted
		}
		if ctx.Err() != nil {
			return questionsAborted
		}
		if !s.Surface.HasValidationError(ctx) {
			return questionsResolved
		}
	}
}

func (s *Submitter) applicationSent(ctx context.Context) bool {
	src, err := s.Surface.PageSource(ctx)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(src), sentMarker)
}

func (s *Submitter) click(ctx context.Context, a Action) {
	if err := s.Surface.Click(ctx, a); err != nil {
		log.Printf("[submit] click %s: %v", a, err)
	}
}
