package bdd

import (
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/specvital/behave/pkg/domain"
)

// Runner executes the cases registered in a Context.
type Runner struct {
	ctx    *Context
	logger *slog.Logger
	name   string
	report *domain.Report
}

// Describe builds a Context, calls fn with it once, and returns a Runner for
// it. fn runs to completion before Describe returns.
func Describe(name string, fn func(*Context), opts ...Option) *Runner {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	c := newContext(name, callerLocation(1))
	fn(c)

	return &Runner{
		ctx:    c,
		logger: options.Logger.With(slog.String("describe", name)),
		name:   name,
	}
}

// Run executes every registered case once, in registration order, with all
// before-hooks run ahead of each case. A failing or panicking case never stops
// the run. Calling Run again repeats the run and replaces the previous report.
//
// The returned error only reports whether the run could be carried out, which
// is always the case; test verdicts are in Result.
//
// runtime.Goexit is not a panic and is not recovered. Calling FailNow on an
// outer *testing.T (directly or through require) inside a case ends the
// calling goroutine and Run never records a report. Use package expect for
// assertions inside cases.
func (r *Runner) Run() error {
	start := time.Now()
	r.logger.Debug("run started",
		slog.Int("tests", len(r.ctx.tests)),
		slog.Int("hooks", len(r.ctx.hooks)),
	)

	report := domain.Report{
		Cases: make([]domain.CaseResult, 0, len(r.ctx.tests)),
	}
	acc := domain.StatusOK

	for i, tc := range r.ctx.tests {
		err := r.runCase(tc)
		outcome := domain.OutcomeOf(err)

		// The first failing case is still counted as a success slot; only
		// cases after it go to ErrorCount.
		if acc.OK() {
			report.SuccessCount++
			acc = outcome.Status()
		} else {
			report.ErrorCount++
		}
		report.Total++

		report.Cases = append(report.Cases, domain.CaseResult{
			Err:     err,
			Index:   i,
			Name:    tc.name,
			Outcome: outcome,
		})

		if err != nil {
			r.logger.Warn("test failed",
				slog.Int("index", i),
				slog.String("case", tc.name),
				slog.String("error", err.Error()),
			)
		}
	}

	report.Status = acc
	r.report = &report

	r.logger.Info("run finished",
		slog.Int("total", report.Total),
		slog.Int("successCount", report.SuccessCount),
		slog.Int("errorCount", report.ErrorCount),
		slog.String("status", string(report.Status)),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

func (r *Runner) runCase(tc testCase) (err error) {
	hook := -1
	defer func() {
		if v := recover(); v != nil {
			err = &FaultError{Hook: hook, Stack: debug.Stack(), Value: v}
		}
	}()

	for i, h := range r.ctx.hooks {
		hook = i
		h()
	}
	hook = -1

	return tc.fn()
}

// Result returns the report of the most recent Run and its overall status.
// Before the first Run it returns an empty report with StatusOK.
func (r *Runner) Result() (domain.Report, domain.Status) {
	if r.report == nil {
		return domain.EmptyReport(), domain.StatusOK
	}
	report := r.report.Clone()
	return report, report.Status
}

// Outline returns the registration tree for documentation. It mirrors the
// nesting of Group calls; execution ignores it.
func (r *Runner) Outline() domain.TestSuite {
	return r.ctx.outline()
}

// Name returns the name given to Describe.
func (r *Runner) Name() string {
	return r.name
}
