// Package expect lets testify assertions run inside behave test cases.
//
// A [T] satisfies both assert.TestingT and require.TestingT:
//
//	ctx.Test("adds", expect.Func(func(t *expect.T) {
//		assert.Equal(t, 4, 2+2)
//		require.NoError(t, err)
//	}))
//
// Failed assert calls are collected and returned as the case error. A failed
// require call aborts the case by panicking with [ErrFailNow], which the
// runner records as a fault.
package expect

import (
	"errors"
	"fmt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrFailNow is the panic value raised by T.FailNow.
var ErrFailNow = errors.New("expect: test aborted")

var (
	_ assert.TestingT  = (*T)(nil)
	_ require.TestingT = (*T)(nil)
)

// T records assertion failures for one test case.
type T struct {
	failures []error
}

// New returns an empty recorder.
func New() *T {
	return &T{}
}

// Errorf records a failure.
func (t *T) Errorf(format string, args ...any) {
	t.failures = append(t.failures, fmt.Errorf(format, args...))
}

// FailNow aborts the current case.
func (t *T) FailNow() {
	err := t.Err()
	if err == nil {
		panic(ErrFailNow)
	}
	panic(fmt.Errorf("%w: %w", ErrFailNow, err))
}

// Failed reports whether any failure was recorded.
func (t *T) Failed() bool {
	return len(t.failures) > 0
}

// Err joins all recorded failures, or returns nil if there were none.
func (t *T) Err() error {
	return errors.Join(t.failures...)
}

// Func adapts fn to a test case returning the recorded failures.
func Func(fn func(t *T)) func() error {
	return func() error {
		t := New()
		fn(t)
		return t.Err()
	}
}
