package bdd

import (
	"errors"
	"fmt"
)

// ErrFailed is a generic failure a test case may return.
var ErrFailed = errors.New("bdd: test failed")

// FaultError is a panic recovered while running a hook or a test case.
type FaultError struct {
	// Hook is the index of the hook that panicked, or -1 if the case body did.
	Hook int
	// Stack is the goroutine stack captured at recovery.
	Stack []byte
	// Value is the value passed to panic.
	Value any
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	if e.Hook >= 0 {
		return fmt.Sprintf("bdd: fault in before-hook %d: %v", e.Hook, e.Value)
	}
	return fmt.Sprintf("bdd: fault: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *FaultError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
