package domain

// TestFile represents a source file declaring behave specs.
type TestFile struct {
	// Language is the programming language of this file.
	Language Language `json:"language"`
	// Path is the file path relative to the scanned root.
	Path string `json:"path"`
	// Suites contains the root Describe blocks in this file.
	Suites []TestSuite `json:"suites,omitempty"`
}

// CountTests returns the total number of tests in this file.
func (f *TestFile) CountTests() int {
	count := 0
	for _, s := range f.Suites {
		count += s.CountTests()
	}
	return count
}

// CountHooks returns the total number of before-hooks in this file.
func (f *TestFile) CountHooks() int {
	count := 0
	for _, s := range f.Suites {
		count += s.CountHooks()
	}
	return count
}

// Inventory represents a collection of spec files in a project.
type Inventory struct {
	// Files contains all parsed spec files.
	Files []TestFile `json:"files"`
	// RootPath is the root directory path of the scanned project.
	RootPath string `json:"rootPath"`
}

// CountTests returns the total number of tests across all files.
func (inv Inventory) CountTests() int {
	count := 0
	for _, f := range inv.Files {
		count += f.CountTests()
	}
	return count
}

// CountSuites returns the number of root Describe blocks across all files.
func (inv Inventory) CountSuites() int {
	count := 0
	for _, f := range inv.Files {
		count += len(f.Suites)
	}
	return count
}
