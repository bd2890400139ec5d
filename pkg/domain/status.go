package domain

// Outcome is the result of a single test case.
type Outcome string

const (
	// OutcomePass indicates the case returned without error.
	OutcomePass Outcome = "pass"
	// OutcomeFail indicates the case returned an error or faulted.
	OutcomeFail Outcome = "fail"
)

// OutcomeOf maps a test case return value to its outcome.
func OutcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeFail
	}
	return OutcomePass
}

// Status converts the outcome into the equivalent run status.
func (o Outcome) Status() Status {
	if o == OutcomePass {
		return StatusOK
	}
	return StatusErr
}

// Status is the cumulative state of a run.
type Status string

const (
	// StatusOK means no case has failed so far.
	StatusOK Status = "ok"
	// StatusErr means at least one case failed.
	StatusErr Status = "err"
)

// OK reports whether the status is StatusOK.
func (s Status) OK() bool {
	return s == StatusOK
}
