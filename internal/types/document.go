// Package types provides type definitions for structured data used throughout the opencontrol-linter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// DocumentType is one of the closed set of OpenControl document categories.
type DocumentType string

const (
	Components     DocumentType = "components"
	Standards      DocumentType = "standards"
	Certifications DocumentType = "certifications"
	// OpenControls is the project manifest (opencontrol.yaml).
	OpenControls DocumentType = "opencontrols"
)

// AllDocumentTypes returns every document type in canonical order.
func AllDocumentTypes() []DocumentType {
	return []DocumentType{Components, Standards, Certifications, OpenControls}
}

// Singular returns the schema directory name for the type (component, standard, ...).
func (d DocumentType) Singular() string {
	switch d {
	case Components:
		return "component"
	case Standards:
		return "standard"
	case Certifications:
		return "certification"
	case OpenControls:
		return "opencontrol"
	default:
		return string(d)
	}
}

// Valid reports whether d is a member of the closed set.
func (d DocumentType) Valid() bool {
	switch d {
	case Components, Standards, Certifications, OpenControls:
		return true
	}
	return false
}

// UnknownTypeError is returned when a document type outside the closed set is requested.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown document type %q", e.Name)
}

// ParseDocumentType accepts both the plural and singular spellings.
func ParseDocumentType(name string) (DocumentType, error) {
	for _, t := range AllDocumentTypes() {
		if name == string(t) || name == t.Singular() {
			return t, nil
		}
	}
	return "", &UnknownTypeError{Name: name}
}

// Target is a (document type, file pattern) pair to expand and validate.
type Target struct {
	Type    DocumentType `json:"type"`
	Pattern string       `json:"pattern"`
}

// Action is what a single invocation does.
type Action string

const (
	ActionRun         Action = "run"
	ActionHelp        Action = "help"
	ActionVersion     Action = "version"
	ActionListSchemas Action = "list-schemas"
)

// RunSpecification is built once per invocation by the target resolver.
type RunSpecification struct {
	Action  Action   `json:"action"`
	Targets []Target `json:"targets"`
}

// TargetsFor returns the patterns of all targets of the given type, in order.
func (s RunSpecification) TargetsFor(t DocumentType) []string {
	patterns := []string{}
	for _, target := range s.Targets {
		if target.Type == t {
			patterns = append(patterns, target.Pattern)
		}
	}
	return patterns
}
