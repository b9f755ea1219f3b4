// Package validation validates individual OpenControl documents against their declared schema.
package validation

import "fmt"

// FileReadError represents an error reading a document from disk
type FileReadError struct {
	Path  string
	Cause error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("file read error: %s: %v", e.Path, e.Cause)
}

func (e *FileReadError) Unwrap() error {
	return e.Cause
}

// ParseError carries every diagnostic the YAML parser produced for one document
type ParseError struct {
	Path     string
	Messages []string
	Cause    error
}

func (e *ParseError) Error() string {
	if len(e.Messages) == 1 {
		return fmt.Sprintf("parse error: %s: %s", e.Path, e.Messages[0])
	}
	return fmt.Sprintf("parse error: %s: %d problems", e.Path, len(e.Messages))
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
