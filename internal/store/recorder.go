package store

import (
	"context"

	"easyapply-engine/internal/domain"
)

// Recorder bundles durable history and the CSV logs behind the interface the
// discovery engine records through.
type Recorder struct {
	History *History
	Results ResultsLog
	Sent    SentLog
}

func (r *Recorder) Seen(jobID string) (bool, error) {
	return r.History.Seen(context.Background(), jobID)
}

func (r *Recorder) RecordResult(res domain.ApplicationResult) error {
	if err := r.History.Record(context.Background(), res.JobID, res.Title, res.Company,
		res.Attempted, res.Submitted, res.Timestamp); err != nil {
		return err
	}
	return r.Results.Append(res)
}

func (r *Recorder) RecordSubmission(res domain.ApplicationResult, jobURL string) error {
	return r.Sent.Append(res, jobURL)
}
