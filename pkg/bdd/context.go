package bdd

import (
	"runtime"

	"github.com/specvital/behave/pkg/domain"
)

// TestFunc is a test case. A nil return is a pass; any error is a failure.
type TestFunc func() error

// HookFunc is a before-hook.
type HookFunc func()

type testCase struct {
	fn   TestFunc
	name string
}

// Context accumulates test cases and before-hooks in registration order.
// Only Describe creates one; Group hands the same instance down.
type Context struct {
	hooks []HookFunc
	tests []testCase

	// Documentation only; never read by Run.
	current *outlineNode
	root    *outlineNode
}

type outlineNode struct {
	children []*outlineNode
	hooks    int
	location domain.Location
	name     string
	tests    []domain.Test
}

func newContext(name string, loc domain.Location) *Context {
	root := &outlineNode{name: name, location: loc}
	return &Context{root: root, current: root}
}

// Group calls fn with the receiver. The name labels the block in the outline
// and has no effect on execution: hooks registered inside fn still apply to
// every test case of the run.
func (c *Context) Group(name string, fn func(*Context)) {
	parent := c.current
	child := &outlineNode{name: name, location: callerLocation(1)}
	parent.children = append(parent.children, child)

	c.current = child
	defer func() { c.current = parent }()

	fn(c)
}

// Test appends fn to the test-case sequence.
func (c *Context) Test(name string, fn TestFunc) {
	c.tests = append(c.tests, testCase{name: name, fn: fn})
	c.current.tests = append(c.current.tests, domain.Test{
		Name:     name,
		Location: callerLocation(1),
	})
}

// Before appends fn to the before-hook sequence.
func (c *Context) Before(fn HookFunc) {
	c.hooks = append(c.hooks, fn)
	c.current.hooks++
}

func (c *Context) outline() domain.TestSuite {
	return c.root.suite()
}

func (n *outlineNode) suite() domain.TestSuite {
	s := domain.TestSuite{
		Hooks:    n.hooks,
		Location: n.location,
		Name:     n.name,
	}
	if len(n.tests) > 0 {
		s.Tests = append([]domain.Test(nil), n.tests...)
	}
	for _, child := range n.children {
		s.Suites = append(s.Suites, child.suite())
	}
	return s
}

// callerLocation returns the location of the caller skip frames above its
// own caller.
func callerLocation(skip int) domain.Location {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return domain.Location{}
	}
	return domain.Location{File: file, StartLine: line, EndLine: line}
}
