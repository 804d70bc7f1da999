package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchURL(t *testing.T) {
	u := SearchURL("go developer", "New York, NY", 25, []int{2, 3}, 2)

	assert.Contains(t, u, "f_LF=f_AL", "Easy Apply filter is always on")
	assert.Contains(t, u, "keywords=go+developer")
	assert.Contains(t, u, "location=New+York%2C+NY")
	assert.Contains(t, u, "start=25")
	assert.Contains(t, u, "f_E=2,3")
	assert.Contains(t, u, "f_TPR=r604800")
}

func TestSearchURL_OptionalFiltersOmitted(t *testing.T) {
	u := SearchURL("sre", "Remote", 0, nil, 0)

	assert.NotContains(t, u, "f_E=")
	assert.NotContains(t, u, "f_TPR=")
	assert.Contains(t, u, "start=0")
}

func TestSearchURL_TimeFilters(t *testing.T) {
	assert.Contains(t, SearchURL("x", "y", 0, nil, 1), "f_TPR=r86400")
	assert.Contains(t, SearchURL("x", "y", 0, nil, 3), "f_TPR=r2592000")
}

func TestJobURL(t *testing.T) {
	assert.Equal(t, "https://www.linkedin.com/jobs/view/4011223344", JobURL("4011223344"))
}

func TestSplitTitle(t *testing.T) {
	title, company := SplitTitle("(2) Senior Go Engineer | Initech | LinkedIn")
	assert.Equal(t, "Senior Go Engineer", title)
	assert.Equal(t, "Initech", company)

	title, company = SplitTitle("Platform Engineer | Globex | LinkedIn")
	assert.Equal(t, "Platform Engineer", title)
	assert.Equal(t, "Globex", company)

	title, company = SplitTitle("LinkedIn")
	assert.Equal(t, "LinkedIn", title)
	assert.Empty(t, company)

	title, company = SplitTitle("")
	assert.Empty(t, title)
	assert.Empty(t, company)
}
