// Package events is the in-process feed behind the status endpoint: the
// engine publishes what it is doing, SSE clients subscribe.
package events

import (
	"encoding/json"
	"time"

	"easyapply-engine/internal/domain"
)

type Event struct {
	Type    string          `json:"type"`
	Version int             `json:"v"`
	At      time.Time       `json:"at"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func makeEvent(typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		Type:    typ,
		Version: 1,
		At:      time.Now().UTC(),
		Data:    raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// SearchStarted announces one position×location pair being worked.
func SearchStarted(position, location string) string {
	return makeEvent("search_started", map[string]string{
		"position": position,
		"location": location,
	})
}

// ApplicationRecorded announces one processed job, submitted or not.
func ApplicationRecorded(res domain.ApplicationResult) string {
	return makeEvent("application_recorded", map[string]any{
		"job_id":    res.JobID,
		"title":     res.Title,
		"company":   res.Company,
		"attempted": res.Attempted,
		"submitted": res.Submitted,
	})
}

// RunFinished announces the discovery loop exiting.
func RunFinished(submitted int) string {
	return makeEvent("run_finished", map[string]int{"submitted": submitted})
}
