package apply

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"time"
)

const multiSelectRetries = 5

// Dispatcher applies resolved answers to form fields. Best-effort by
// contract: every failure is caught at this boundary, logged and the field
// left unanswered — a later validation-error screen picks it back up.
type Dispatcher struct {
	// Answer resolves a question label to an answer string. Total.
	Answer func(question string) string
	Rand   *rand.Rand
}

func NewDispatcher(answer func(string) string) *Dispatcher {
	return &Dispatcher{
		Answer: answer,
		Rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// FillScreen runs one full pass over the visible question blocks: first a
// clearing pass that unchecks pre-selected radios (sites pre-select defaults
// that must be explicitly overridden), then a fill pass. Fields are
// re-resolved between passes because any click can invalidate the set.
func (d *Dispatcher) FillScreen(ctx context.Context, s Surface) {
	fields, err := s.Fields(ctx)
	if err != nil {
		log.Printf("[apply] cannot list fields: %v", err)
		return
	}

	for _, f := range fields {
		if f.Has(ctx, KindRadio) {
			d.clearRadios(ctx, f)
		}
	}

	fields, err = s.Fields(ctx)
	if err != nil {
		log.Printf("[apply] cannot re-list fields: %v", err)
		return
	}

	for i, f := range fields {
		if err := d.Fill(ctx, f); err != nil {
			if errors.Is(err, ErrStale) {
				log.Printf("[apply] field %d went stale, leaving for next pass", i)
				continue
			}
			log.Printf("[apply] field %d left unanswered: %v", i, err)
		}
	}
}

// Fill resolves the field's question, classifies the control once and applies
// the kind-specific strategy.
func (d *Dispatcher) Fill(ctx context.Context, f Field) error {
	question, err := f.Question(ctx)
	if err != nil {
		return err
	}
	answer := d.Answer(question)

	kind := Classify(ctx, f)
	log.Printf("[apply] question=%q kind=%s answer=%q", question, kind, answer)

	switch kind {
	case KindRadio:
		return d.fillChoice(ctx, f, KindRadio, answer, d.matchRadio)
	case KindMultiSelect:
		return d.fillMultiSelect(ctx, f, answer)
	case KindText:
		return f.SetText(ctx, KindText, answer)
	case KindAutocomplete:
		return f.SetAutocomplete(ctx, answer)
	case KindTextArea:
		return f.SetText(ctx, KindTextArea, answer)
	case KindFieldset:
		return d.fillChoice(ctx, f, KindFieldset, answer, d.matchAttr)
	case KindDate:
		if err := f.SetText(ctx, KindDate, answer); err != nil {
			return err
		}
		if err := f.ConfirmToday(ctx); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		return nil
	default:
		log.Printf("[apply] cannot determine control type for %q, skipping", question)
		return nil
	}
}

// matcher picks an option index for an answer, or reports no deterministic
// match so the caller falls back to a random pick.
type matcher func(ctx context.Context, opts []Option, answer string) (int, bool, error)

func (d *Dispatcher) fillChoice(ctx context.Context, f Field, k Kind, answer string, match matcher) error {
	opts, err := f.Options(ctx, k)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return ErrNotFound
	}

	idx, ok, err := match(ctx, opts, answer)
	if err != nil {
		return err
	}
	if !ok {
		idx = randomIndex(d.Rand, len(opts))
		log.Printf("[apply] no option matches %q, picking option %d at random", answer, idx)
	}

	if err := opts[idx].Select(ctx); err != nil {
		if errors.Is(err, ErrStale) {
			return err
		}
		// Native click rejected; synthesize one.
		return opts[idx].ForceSelect(ctx)
	}
	return nil
}

// matchRadio matches on the option value attribute.
func (d *Dispatcher) matchRadio(ctx context.Context, opts []Option, answer string) (int, bool, error) {
	values, err := optionValues(ctx, opts)
	if err != nil {
		return 0, false, err
	}
	idx, ok := MatchOption(answer, values)
	return idx, ok, nil
}

// matchAttr matches a fieldset's stable option-identifying attribute.
func (d *Dispatcher) matchAttr(ctx context.Context, opts []Option, answer string) (int, bool, error) {
	return d.matchRadio(ctx, opts, answer)
}

func optionValues(ctx context.Context, opts []Option) ([]string, error) {
	values := make([]string, len(opts))
	for i, o := range opts {
		v, err := o.Value(ctx)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// fillMultiSelect matches the answer against the options' visible text; with
// no hit it takes the option at index 1, the first real choice after the
// "Select an option" placeholder. A stale control reference re-fetches the
// options, bounded by multiSelectRetries.
func (d *Dispatcher) fillMultiSelect(ctx context.Context, f Field, answer string) error {
	var lastErr error
	for attempt := 0; attempt < multiSelectRetries; attempt++ {
		err := d.tryMultiSelect(ctx, f, answer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrStale) {
			return err
		}
		log.Printf("[apply] stale multi-select, attempt %d/%d", attempt+1, multiSelectRetries)
		lastErr = err
	}
	return lastErr
}

func (d *Dispatcher) tryMultiSelect(ctx context.Context, f Field, answer string) error {
	opts, err := f.Options(ctx, KindMultiSelect)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return ErrNotFound
	}

	a := strings.ToLower(strings.TrimSpace(answer))
	pick := -1
	for i, o := range opts {
		label, err := o.Label(ctx)
		if err != nil {
			return err
		}
		if a != "" && strings.Contains(strings.ToLower(label), a) {
			pick = i
			break
		}
	}
	if pick < 0 {
		pick = 0
		if len(opts) > 1 {
			pick = 1
		}
	}
	return opts[pick].Select(ctx)
}

// clearRadios unchecks every pre-selected option in a radio group.
func (d *Dispatcher) clearRadios(ctx context.Context, f Field) {
	opts, err := f.Options(ctx, KindRadio)
	if err != nil {
		log.Printf("[apply] cannot clear radio group: %v", err)
		return
	}
	for _, o := range opts {
		if err := o.Deselect(ctx); err != nil && !errors.Is(err, ErrNotFound) {
			log.Printf("[apply] radio deselect: %v", err)
		}
	}
}

// PrefillPhone writes the mobile number into the contact-info screen before
// the submission loop starts.
func (d *Dispatcher) PrefillPhone(ctx context.Context, s Surface, phone string) {
	fields, err := s.Fields(ctx)
	if err != nil {
		log.Printf("[apply] phone prefill: %v", err)
		return
	}
	for _, f := range fields {
		q, err := f.Question(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(q), "mobile phone number") {
			if err := f.SetText(ctx, KindText, phone); err != nil {
				log.Printf("[apply] phone prefill: %v", err)
			}
			return
		}
	}
}
