package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"easyapply-engine/internal/domain"
)

// appendRow opens the CSV for append, writing header first if the file is
// new, and flushes one row. Open-append-close per row keeps every outcome on
// disk even if the run dies mid-search.
func appendRow(path string, header, row []string) error {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return err
		}
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ResultsLog appends one row per processed job to the results CSV.
type ResultsLog struct {
	Path string
}

var resultsHeader = []string{"Timestamp", "JobID", "Title", "Company", "Attempted", "Submitted"}

func (l ResultsLog) Append(res domain.ApplicationResult) error {
	return appendRow(l.Path, resultsHeader, []string{
		res.Timestamp.Format(time.RFC3339),
		res.JobID,
		res.Title,
		res.Company,
		strconv.FormatBool(res.Attempted),
		strconv.FormatBool(res.Submitted),
	})
}

// SentLog is the short list of successful applications only, with a link
// back to each listing.
type SentLog struct {
	Path string
}

var sentHeader = []string{"Timestamp", "Title", "Company", "URL"}

func (l SentLog) Append(res domain.ApplicationResult, jobURL string) error {
	return appendRow(l.Path, sentHeader, []string{
		res.Timestamp.Format(time.RFC3339),
		res.Title,
		res.Company,
		jobURL,
	})
}
