package discover

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const base = "https://www.linkedin.com"

// resultsPerPage is LinkedIn's search pagination stride.
const resultsPerPage = 25

// SearchURL builds an Easy-Apply-filtered search page URL. timeFilter: 0 any,
// 1 last 24h, 2 past week, 3 past month. experience holds f_E codes 1..6.
func SearchURL(position, location string, start int, experience []int, timeFilter int) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("/jobs/search/?f_LF=f_AL")
	b.WriteString("&keywords=")
	b.WriteString(url.QueryEscape(position))
	b.WriteString("&location=")
	b.WriteString(url.QueryEscape(location))
	b.WriteString("&start=")
	b.WriteString(strconv.Itoa(start))

	if len(experience) > 0 {
		codes := make([]string, len(experience))
		for i, e := range experience {
			codes[i] = strconv.Itoa(e)
		}
		b.WriteString("&f_E=")
		b.WriteString(strings.Join(codes, ","))
	}

	switch timeFilter {
	case 1:
		b.WriteString("&f_TPR=r86400")
	case 2:
		b.WriteString("&f_TPR=r604800")
	case 3:
		b.WriteString("&f_TPR=r2592000")
	}

	return b.String()
}

// JobURL is the direct listing page for a numeric job id.
func JobURL(jobID string) string {
	return fmt.Sprintf("%s/jobs/view/%s", base, jobID)
}
