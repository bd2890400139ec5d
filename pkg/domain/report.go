package domain

import "slices"

// CaseResult records what happened to one test case during a run.
type CaseResult struct {
	// Err is the error returned by the case, or the recovered fault.
	Err     error   `json:"-"`
	Index   int     `json:"index"`
	Name    string  `json:"name"`
	Outcome Outcome `json:"outcome"`
}

// Report is the aggregate of one run.
//
// SuccessCount counts the cases processed while the cumulative status was
// still StatusOK, including the first failing case. ErrorCount counts the
// cases processed after it. Neither is a per-case pass/fail tally; use Cases
// for that.
type Report struct {
	Cases        []CaseResult `json:"cases,omitempty"`
	ErrorCount   int          `json:"errorCount"`
	Status       Status       `json:"status"`
	SuccessCount int          `json:"successCount"`
	Total        int          `json:"total"`
}

// EmptyReport is the report of a run that attempted nothing.
func EmptyReport() Report {
	return Report{Status: StatusOK}
}

// Clone returns a copy that shares no memory with r.
func (r Report) Clone() Report {
	r.Cases = slices.Clone(r.Cases)
	return r
}

// Failed returns the cases whose own outcome was OutcomeFail.
func (r Report) Failed() []CaseResult {
	var failed []CaseResult
	for _, c := range r.Cases {
		if c.Outcome == OutcomeFail {
			failed = append(failed, c)
		}
	}
	return failed
}
