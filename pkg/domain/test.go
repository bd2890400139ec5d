package domain

// Test is a declared test case.
type Test struct {
	Location Location `json:"location"`
	Name     string   `json:"name"`
}

// TestSuite is a declared group of tests. Hooks counts the before-hooks
// declared directly in this suite; it says nothing about which tests they
// run for.
type TestSuite struct {
	Hooks    int         `json:"hooks,omitempty"`
	Location Location    `json:"location"`
	Name     string      `json:"name"`
	Suites   []TestSuite `json:"suites,omitempty"`
	Tests    []Test      `json:"tests,omitempty"`
}

// CountTests returns the total number of tests in this suite and its nested suites.
func (s TestSuite) CountTests() int {
	count := len(s.Tests)
	for _, sub := range s.Suites {
		count += sub.CountTests()
	}
	return count
}

// CountHooks returns the total number of before-hooks declared in this suite
// and its nested suites.
func (s TestSuite) CountHooks() int {
	count := s.Hooks
	for _, sub := range s.Suites {
		count += sub.CountHooks()
	}
	return count
}
