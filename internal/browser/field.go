package browser

import (
	"context"

	"easyapply-engine/internal/apply"

	"github.com/playwright-community/playwright-go"
)

// field is one question grouping on the current screen.
type field struct {
	page    playwright.Page
	loc     playwright.Locator
	timeout float64
}

// Question returns the grouping's visible text. Callers normalize it; the
// label always comes first so substring rules keep working even with option
// text appended.
func (f *field) Question(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := f.loc.InnerText()
	if err != nil {
		return "", translateErr(err)
	}
	return text, nil
}

func (f *field) Has(ctx context.Context, k apply.Kind) bool {
	if ctx.Err() != nil {
		return false
	}
	sel, ok := kindSelectors[k]
	if !ok {
		return false
	}
	n, err := f.loc.Locator(sel).Count()
	return err == nil && n > 0
}

func (f *field) Options(ctx context.Context, k apply.Kind) ([]apply.Option, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch k {
	case apply.KindMultiSelect:
		sel := f.loc.Locator(kindSelectors[apply.KindMultiSelect]).First()
		optLocs, err := sel.Locator("option").All()
		if err != nil {
			return nil, translateErr(err)
		}
		opts := make([]apply.Option, len(optLocs))
		for i, ol := range optLocs {
			opts[i] = &selectOption{sel: sel, loc: ol}
		}
		return opts, nil

	case apply.KindRadio, apply.KindFieldset:
		locs, err := f.loc.Locator(kindSelectors[k]).All()
		if err != nil {
			return nil, translateErr(err)
		}
		opts := make([]apply.Option, len(locs))
		for i, l := range locs {
			opts[i] = &inputOption{
				loc:      l,
				byAttr:   k == apply.KindFieldset,
				timeout:  f.timeout,
				grouping: f.loc,
			}
		}
		return opts, nil

	default:
		return nil, apply.ErrNotFound
	}
}

func (f *field) SetText(ctx context.Context, k apply.Kind, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sel, ok := kindSelectors[k]
	if !ok {
		return apply.ErrNotFound
	}
	loc := f.loc.Locator(sel).First()

	if k == apply.KindDate {
		// The picker listens for keystrokes, not value changes.
		if err := loc.PressSequentially(value, playwright.LocatorPressSequentiallyOptions{
			Timeout: playwright.Float(f.timeout),
		}); err != nil {
			return translateErr(err)
		}
		return translateErr(loc.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(f.timeout),
		}))
	}

	return translateErr(loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(f.timeout),
	}))
}

// SetAutocomplete types the value, waits for the suggestion list and takes
// the top suggestion.
func (f *field) SetAutocomplete(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	loc := f.loc.Locator(kindSelectors[apply.KindAutocomplete]).First()

	if err := loc.Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(f.timeout),
	}); err != nil {
		return translateErr(err)
	}
	f.page.WaitForTimeout(2000)
	if err := loc.Press("ArrowDown"); err != nil {
		return translateErr(err)
	}
	return translateErr(loc.Press("Enter"))
}

func (f *field) ConfirmToday(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	btn := f.loc.Locator(todayButtonSelector)
	n, err := btn.Count()
	if err != nil {
		return translateErr(err)
	}
	if n == 0 {
		return apply.ErrNotFound
	}
	return translateErr(btn.First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(f.timeout),
	}))
}

// inputOption is a radio or fieldset checkbox/radio input.
type inputOption struct {
	loc      playwright.Locator
	grouping playwright.Locator
	// byAttr switches value reads to the fieldset's stable option attribute
	// instead of the input's value.
	byAttr  bool
	timeout float64
}

func (o *inputOption) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	attr := "value"
	if o.byAttr {
		attr = fieldsetOptionAttr
	}
	v, err := o.loc.GetAttribute(attr)
	if err != nil {
		return "", translateErr(err)
	}
	return v, nil
}

func (o *inputOption) Label(ctx context.Context) (string, error) {
	return o.Value(ctx)
}

func (o *inputOption) Select(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return translateErr(o.loc.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(o.timeout),
	}))
}

// ForceSelect clicks synthetically for inputs the native layer reports as
// non-interactable (the visual control is the sibling label).
func (o *inputOption) ForceSelect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := o.loc.Evaluate(`el => { el.click(); el.dispatchEvent(new Event('change', {bubbles: true})); }`, nil)
	return translateErr(err)
}

func (o *inputOption) Deselect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := o.loc.Evaluate(`el => {
		if (el.checked) {
			el.checked = false;
			el.dispatchEvent(new Event('change', {bubbles: true}));
		}
	}`, nil)
	return translateErr(err)
}

// selectOption is one <option> in a native dropdown. Selection goes through
// the parent <select>; options are not directly clickable.
type selectOption struct {
	sel playwright.Locator
	loc playwright.Locator
}

func (o *selectOption) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := o.loc.GetAttribute("value")
	if err != nil {
		return "", translateErr(err)
	}
	return v, nil
}

func (o *selectOption) Label(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := o.loc.TextContent()
	if err != nil {
		return "", translateErr(err)
	}
	return text, nil
}

func (o *selectOption) Select(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v, err := o.Value(ctx)
	if err != nil {
		return err
	}
	_, err = o.sel.SelectOption(playwright.SelectOptionValues{Values: &[]string{v}})
	return translateErr(err)
}

func (o *selectOption) ForceSelect(ctx context.Context) error {
	return o.Select(ctx)
}

func (o *selectOption) Deselect(ctx context.Context) error {
	// Native single-selects always have a value; nothing to clear.
	return nil
}
