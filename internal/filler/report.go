package filler

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Status is the result of one field.
type Status string

const (
	StatusFilled     Status = "filled"
	StatusNotFound   Status = "not_found"   // no element on the page
	StatusEmpty      Status = "empty"       // optional field left blank
	StatusFillFailed Status = "fill_failed" // element found but typing failed
)

// Outcome records what happened to one descriptor.
type Outcome struct {
	Section string
	Key     string
	Status  Status
	Detail  string
}

// Report collects outcomes for a fill run.
type Report struct {
	RunID    string
	Outcomes []Outcome
	// Screenshot is the path of the screenshot saved after filling, if any.
	Screenshot string
}

func newReport() Report {
	return Report{RunID: uuid.NewString()}
}

func (r *Report) add(d Descriptor, status Status, detail string) {
	r.Outcomes = append(r.Outcomes, Outcome{
		Section: d.Section,
		Key:     d.Key,
		Status:  status,
		Detail:  detail,
	})
}

// Count returns the number of outcomes with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Filled returns the number of fields that were filled.
func (r Report) Filled() int {
	return r.Count(StatusFilled)
}

// Summary is a one-line human readable digest.
func (r Report) Summary() string {
	var skipped []string
	for _, s := range []Status{StatusNotFound, StatusEmpty, StatusFillFailed} {
		if n := r.Count(s); n > 0 {
			skipped = append(skipped, fmt.Sprintf("%d %s", n, strings.ReplaceAll(string(s), "_", " ")))
		}
	}
	line := fmt.Sprintf("filled %d of %d fields", r.Filled(), len(r.Outcomes))
	if len(skipped) > 0 {
		line += " (" + strings.Join(skipped, ", ") + ")"
	}
	return line
}
