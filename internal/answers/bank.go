package answers

import (
	"encoding/csv"
	"log"
	"os"
	"strings"
)

// Bank is the durable question→answer knowledge base. First answer recorded
// for a question is sticky for the rest of the run and for every later run.
// Rows are only ever appended, so a crash can lose at most the latest
// unflushed row and never corrupts history.
type Bank struct {
	path    string
	answers map[string]string
}

// LoadBank reads the persisted pairs, or initializes an empty store with the
// two-column header. Read and parse failures are logged and the bank starts
// fresh; a broken qa file must never kill the run.
func LoadBank(path string) *Bank {
	b := &Bank{path: path, answers: make(map[string]string)}

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[answers] cannot read %s: %v; starting fresh", path, err)
		}
		b.writeHeader()
		return b
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		log.Printf("[answers] cannot parse %s: %v; starting fresh", path, err)
		b.writeHeader()
		return b
	}
	if len(rows) == 0 {
		b.writeHeader()
		return b
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(row[0], "Question") {
			continue
		}
		if len(row) < 2 {
			continue
		}
		q := Normalize(row[0])
		if q == "" {
			continue
		}
		if _, ok := b.answers[q]; !ok {
			b.answers[q] = row[1]
		}
	}
	return b
}

func (b *Bank) writeHeader() {
	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		log.Printf("[answers] cannot create %s: %v", b.path, err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"Question", "Answer"})
	w.Flush()
}

func (b *Bank) Lookup(question string) (string, bool) {
	a, ok := b.answers[Normalize(question)]
	return a, ok
}

// Record inserts the pair and appends a single row to the store. No-op when
// the question is already known: first write wins.
func (b *Bank) Record(question, answer string) {
	q := Normalize(question)
	if q == "" {
		return
	}
	if _, ok := b.answers[q]; ok {
		return
	}
	b.answers[q] = answer

	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("[answers] cannot append to %s: %v", b.path, err)
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{q, answer})
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("[answers] append failed for %q: %v", q, err)
	}
}

func (b *Bank) Len() int { return len(b.answers) }

// Normalize is the bank's key function: lowercase, collapsed whitespace.
func Normalize(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}
