package domain

import "strings"

// Profile is the applicant record every answer is drawn from. Built once from
// config at startup, read-only for the rest of the run.
type Profile struct {
	FirstName string
	LastName  string

	Street string
	City   string
	State  string
	Zip    string

	GitHub    string
	LinkedIn  string
	Portfolio string
	Phone     string

	// Self-identification answers, returned verbatim when a form asks.
	Gender     string
	Race       string
	Disability string
	Veteran    string
	LGBTQ      string

	Salary     string
	HourlyRate string
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
