package apply

import (
	"context"
	"time"
)

// fakeClock advances only when the code under test sleeps, so budget
// exhaustion is deterministic.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type fakeOption struct {
	value      string
	label      string
	selected   bool
	forced     bool
	deselected bool
	// selectErr is returned by Select; ForceSelect still succeeds.
	selectErr error
}

func (o *fakeOption) Value(context.Context) (string, error) { return o.value, nil }
func (o *fakeOption) Label(context.Context) (string, error) { return o.label, nil }

func (o *fakeOption) Select(context.Context) error {
	if o.selectErr != nil {
		return o.selectErr
	}
	o.selected = true
	return nil
}

func (o *fakeOption) ForceSelect(context.Context) error {
	o.selected = true
	o.forced = true
	return nil
}

func (o *fakeOption) Deselect(context.Context) error {
	o.selected = false
	o.deselected = true
	return nil
}

type fakeField struct {
	question string
	kinds    map[Kind]bool
	opts     []*fakeOption
	// staleReads makes Options fail with ErrStale this many times first.
	staleReads int

	text         map[Kind]string
	autocomplete string
	todayClicked bool
	hasToday     bool
}

func newFakeField(question string, kinds ...Kind) *fakeField {
	f := &fakeField{question: question, kinds: map[Kind]bool{}, text: map[Kind]string{}}
	for _, k := range kinds {
		f.kinds[k] = true
	}
	return f
}

func (f *fakeField) Question(context.Context) (string, error) { return f.question, nil }
func (f *fakeField) Has(_ context.Context, k Kind) bool       { return f.kinds[k] }

func (f *fakeField) Options(_ context.Context, k Kind) ([]Option, error) {
	if f.staleReads > 0 {
		f.staleReads--
		return nil, ErrStale
	}
	if !f.kinds[k] {
		return nil, ErrNotFound
	}
	out := make([]Option, len(f.opts))
	for i, o := range f.opts {
		out[i] = o
	}
	return out, nil
}

func (f *fakeField) SetText(_ context.Context, k Kind, value string) error {
	f.text[k] = value
	return nil
}

func (f *fakeField) SetAutocomplete(_ context.Context, value string) error {
	f.autocomplete = value
	return nil
}

func (f *fakeField) ConfirmToday(context.Context) error {
	if !f.hasToday {
		return ErrNotFound
	}
	f.todayClicked = true
	return nil
}

func (f *fakeField) filled() bool {
	if len(f.text) > 0 || f.autocomplete != "" {
		return true
	}
	for _, o := range f.opts {
		if o.selected {
			return true
		}
	}
	return false
}

// screen is one step of a scripted submission flow.
type screen struct {
	actions map[Action]bool
	// validation error shows until every field on the screen reports filled.
	validationError bool
	fields          []*fakeField
	source          string
}

func (sc *screen) resolved() bool {
	for _, f := range sc.fields {
		if !f.filled() {
			return false
		}
	}
	return true
}

// fakeSurface walks through screens: next/continue/review clicks advance,
// submit records and stays.
type fakeSurface struct {
	screens    []*screen
	idx        int
	submitted  bool
	unfollowed int
	navigated  []string
}

func (s *fakeSurface) cur() *screen { return s.screens[s.idx] }

func (s *fakeSurface) Navigate(_ context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return nil
}

func (s *fakeSurface) LoadPage(context.Context) error { return nil }

func (s *fakeSurface) Title(context.Context) (string, error) { return "", nil }

func (s *fakeSurface) PageSource(context.Context) (string, error) {
	return s.cur().source, nil
}

func (s *fakeSurface) Present(_ context.Context, a Action) bool {
	return s.cur().actions[a]
}

func (s *fakeSurface) Click(_ context.Context, a Action) error {
	if !s.cur().actions[a] {
		return ErrNotFound
	}
	switch a {
	case ActionFollow:
		s.unfollowed++
	case ActionSubmit:
		s.submitted = true
	case ActionNext, ActionContinue, ActionReview:
		if s.idx < len(s.screens)-1 {
			s.idx++
		}
	}
	return nil
}

func (s *fakeSurface) HasValidationError(ctx context.Context) bool {
	sc := s.cur()
	return sc.validationError && !sc.resolved()
}

func (s *fakeSurface) Fields(context.Context) ([]Field, error) {
	sc := s.cur()
	out := make([]Field, len(sc.fields))
	for i, f := range sc.fields {
		out[i] = f
	}
	return out, nil
}
