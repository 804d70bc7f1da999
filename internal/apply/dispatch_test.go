package apply

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerWith(m map[string]string, fallback string) func(string) string {
	return func(q string) string {
		if a, ok := m[q]; ok {
			return a
		}
		return fallback
	}
}

func seededDispatcher(answer func(string) string) *Dispatcher {
	d := NewDispatcher(answer)
	d.Rand = rand.New(rand.NewSource(7))
	return d
}

func TestFill_RadioExactMatch(t *testing.T) {
	f := newFakeField("Do you agree?", KindRadio)
	f.opts = []*fakeOption{
		{value: "Strongly Disagree"}, {value: "Disagree"},
		{value: "Agree"}, {value: "Strongly Agree"},
	}
	d := seededDispatcher(answerWith(nil, "Agree"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.True(t, f.opts[2].selected)
	assert.False(t, f.opts[3].selected)
}

func TestFill_RadioRandomFallbackIsSeeded(t *testing.T) {
	mk := func() *fakeField {
		f := newFakeField("Pick one", KindRadio)
		f.opts = []*fakeOption{{value: "Alpha"}, {value: "Beta"}, {value: "Gamma"}}
		return f
	}

	f1, f2 := mk(), mk()
	require.NoError(t, seededDispatcher(answerWith(nil, "Delta")).Fill(context.Background(), f1))
	require.NoError(t, seededDispatcher(answerWith(nil, "Delta")).Fill(context.Background(), f2))

	pickOf := func(f *fakeField) int {
		for i, o := range f.opts {
			if o.selected {
				return i
			}
		}
		return -1
	}
	require.NotEqual(t, -1, pickOf(f1), "some option must be chosen")
	assert.Equal(t, pickOf(f1), pickOf(f2), "same seed picks the same option")
}

func TestFillScreen_ClearsPreselectedRadios(t *testing.T) {
	f := newFakeField("Do you agree?", KindRadio)
	f.opts = []*fakeOption{{value: "Yes", selected: true}, {value: "No"}}
	s := &fakeSurface{screens: []*screen{{fields: []*fakeField{f}}}}

	d := seededDispatcher(answerWith(nil, "No"))
	d.FillScreen(context.Background(), s)

	assert.True(t, f.opts[0].deselected, "pre-selected default must be cleared first")
	assert.True(t, f.opts[1].selected)
}

func TestFill_MultiSelectSubstringOnLabel(t *testing.T) {
	f := newFakeField("Notice period", KindMultiSelect)
	f.opts = []*fakeOption{
		{label: "Select an option"},
		{label: "2 weeks"},
		{label: "1 month"},
	}
	d := seededDispatcher(answerWith(nil, "month"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.True(t, f.opts[2].selected)
}

func TestFill_MultiSelectFallsBackToSecondOption(t *testing.T) {
	f := newFakeField("Notice period", KindMultiSelect)
	f.opts = []*fakeOption{
		{label: "Select an option"},
		{label: "2 weeks"},
		{label: "1 month"},
	}
	d := seededDispatcher(answerWith(nil, "tomorrow"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.True(t, f.opts[1].selected, "conservative non-empty fallback is index 1")
}

func TestFill_MultiSelectRetriesStaleReads(t *testing.T) {
	f := newFakeField("Notice period", KindMultiSelect)
	f.staleReads = 3
	f.opts = []*fakeOption{{label: "Select an option"}, {label: "2 weeks"}}
	d := seededDispatcher(answerWith(nil, "weeks"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.True(t, f.opts[1].selected)
}

func TestFill_MultiSelectGivesUpAfterBudget(t *testing.T) {
	f := newFakeField("Notice period", KindMultiSelect)
	f.staleReads = multiSelectRetries + 1
	f.opts = []*fakeOption{{label: "a"}, {label: "b"}}
	d := seededDispatcher(answerWith(nil, "b"))

	err := d.Fill(context.Background(), f)
	assert.ErrorIs(t, err, ErrStale)
	assert.False(t, f.opts[1].selected)
}

func TestFill_TextAndTextArea(t *testing.T) {
	txt := newFakeField("City", KindText)
	area := newFakeField("Cover note", KindTextArea)
	d := seededDispatcher(answerWith(map[string]string{"City": "Austin"}, "n/a"))

	require.NoError(t, d.Fill(context.Background(), txt))
	require.NoError(t, d.Fill(context.Background(), area))
	assert.Equal(t, "Austin", txt.text[KindText])
	assert.Equal(t, "n/a", area.text[KindTextArea])
}

func TestFill_Autocomplete(t *testing.T) {
	f := newFakeField("Location (city)", KindAutocomplete)
	d := seededDispatcher(answerWith(nil, "Austin"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.Equal(t, "Austin", f.autocomplete)
}

func TestFill_FieldsetForcedClickFallback(t *testing.T) {
	f := newFakeField("Work authorization", KindFieldset)
	f.opts = []*fakeOption{
		{value: "Yes", selectErr: assert.AnError},
		{value: "No"},
	}
	d := seededDispatcher(answerWith(nil, "Yes"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.True(t, f.opts[0].selected)
	assert.True(t, f.opts[0].forced, "rejected native click falls back to a synthetic one")
}

func TestFill_DateConfirmsToday(t *testing.T) {
	f := newFakeField("Earliest start date (mm/dd/yyyy)", KindDate)
	f.hasToday = true
	d := seededDispatcher(answerWith(nil, "08/28/2026"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.Equal(t, "08/28/2026", f.text[KindDate])
	assert.True(t, f.todayClicked)
}

func TestFill_UnknownKindSkips(t *testing.T) {
	f := newFakeField("Mystery widget")
	d := seededDispatcher(answerWith(nil, "x"))

	require.NoError(t, d.Fill(context.Background(), f))
	assert.False(t, f.filled())
}

func TestPrefillPhone(t *testing.T) {
	phone := newFakeField("Mobile phone number", KindText)
	other := newFakeField("Email address", KindText)
	s := &fakeSurface{screens: []*screen{{fields: []*fakeField{other, phone}}}}

	d := seededDispatcher(answerWith(nil, "x"))
	d.PrefillPhone(context.Background(), s, "5551234567")

	assert.Equal(t, "5551234567", phone.text[KindText])
	assert.Empty(t, other.text[KindText])
}
