package domain

import "time"

// ApplicationResult is one row of the append-only results log.
type ApplicationResult struct {
	Timestamp time.Time
	JobID     string
	Title     string
	Company   string
	Attempted bool
	Submitted bool
}
