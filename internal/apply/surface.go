// Package apply holds the form-filling decision engine: classifying a form
// field into a control kind, applying a resolved answer with a kind-specific
// strategy, and driving the multi-screen submission flow to a terminal state.
// It only ever sees the browser through the Surface and Field interfaces.
package apply

import (
	"context"
	"errors"
)

// Action names a flow control the submission loop probes for. Absence of an
// action is the normal branching mechanism, not an error.
type Action string

const (
	ActionFollow    Action = "follow"
	ActionSubmit    Action = "submit"
	ActionNext      Action = "next"
	ActionContinue  Action = "continue_applying"
	ActionReview    Action = "review"
	ActionEasyApply Action = "easy_apply"
)

// Kind tags the control shape of one form field. Classification probes run
// in this order; first hit wins.
type Kind int

const (
	KindUnknown Kind = iota
	KindRadio
	KindMultiSelect
	KindText
	KindAutocomplete
	KindTextArea
	KindFieldset
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindRadio:
		return "radio"
	case KindMultiSelect:
		return "multi_select"
	case KindText:
		return "text"
	case KindAutocomplete:
		return "autocomplete"
	case KindTextArea:
		return "text_area"
	case KindFieldset:
		return "fieldset"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// classifyOrder is the probe priority from the narrowest control shape to
// the broadest.
var classifyOrder = []Kind{
	KindRadio,
	KindMultiSelect,
	KindText,
	KindAutocomplete,
	KindTextArea,
	KindFieldset,
	KindDate,
}

// ErrStale marks a control reference that went bad between reads. Callers
// treat it as "retry on the next full re-scan", never as fatal.
var ErrStale = errors.New("stale control")

// ErrNotFound marks a control the current screen does not offer.
var ErrNotFound = errors.New("control not found")

// Option is one selectable choice inside a radio group, dropdown or fieldset.
type Option interface {
	// Value returns the stable option-identifying attribute.
	Value(ctx context.Context) (string, error)
	// Label returns the visible text, used for dropdown matching.
	Label(ctx context.Context) (string, error)
	Select(ctx context.Context) error
	// ForceSelect clicks synthetically, for controls the native interaction
	// layer rejects as non-interactable.
	ForceSelect(ctx context.Context) error
	// Deselect clears a pre-selected choice.
	Deselect(ctx context.Context) error
}

// Field is a transient view over one question block on the current screen.
// References may go stale after any click; the dispatcher re-resolves fields
// on every pass.
type Field interface {
	Question(ctx context.Context) (string, error)
	// Has probes whether this field carries a control of the given kind.
	Has(ctx context.Context, k Kind) bool
	Options(ctx context.Context, k Kind) ([]Option, error)
	// SetText clears the control and types value.
	SetText(ctx context.Context, k Kind, value string) error
	// SetAutocomplete types value, waits for the suggestion list and picks
	// the first suggestion.
	SetAutocomplete(ctx context.Context, value string) error
	// ConfirmToday activates the date picker's same-day quick-select if one
	// appeared. ErrNotFound when it didn't.
	ConfirmToday(ctx context.Context) error
}

// Surface is the UI automation driver as the decision engine sees it. All
// methods are blocking and internally bounded; a hung page surfaces as an
// error, not a stall.
type Surface interface {
	Navigate(ctx context.Context, url string) error
	// LoadPage scrolls the page so lazy content materializes.
	LoadPage(ctx context.Context) error
	Title(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)
	Present(ctx context.Context, a Action) bool
	// Click activates every control matching the action, best-effort.
	Click(ctx context.Context, a Action) error
	// HasValidationError reports the inline form-feedback indicator.
	HasValidationError(ctx context.Context) bool
	// Fields re-resolves the question blocks on the current screen.
	Fields(ctx context.Context) ([]Field, error)
}

// Classify runs the ordered capability probes once and tags the field.
func Classify(ctx context.Context, f Field) Kind {
	for _, k := range classifyOrder {
		if f.Has(ctx, k) {
			return k
		}
	}
	return KindUnknown
}
