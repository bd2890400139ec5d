// Package domain defines the core types shared by the runner and the static scanner.
package domain

// Language represents a programming language.
type Language string

// LanguageGo is the only language behave specs are written in.
const LanguageGo Language = "go"
