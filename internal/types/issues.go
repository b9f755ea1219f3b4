package types

// IssueKind tags an Issue so the reporter can pick a renderer.
type IssueKind string

const (
	KindFieldNotInEnum        IssueKind = "field-not-in-enum"
	KindUndefinedKey          IssueKind = "undefined-key"
	KindSchemaNotFound        IssueKind = "schema-not-found"
	KindPatternMatchedNothing IssueKind = "pattern-matched-nothing"
	KindParseError            IssueKind = "parse-error"
	KindGeneric               IssueKind = "generic"
)

// Issue represents a single structural nonconformity in one document.
// Which of the optional fields are set depends on Kind.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Path    string    `json:"path"`
	Message string    `json:"message"`

	Value      string   `json:"value,omitempty"`       // Offending value, or the undefined key
	Allowed    []string `json:"allowed,omitempty"`     // Enum values accepted at Path
	SchemaPath string   `json:"schema_path,omitempty"` // Schema that was attempted
	Supported  []string `json:"supported,omitempty"`   // Schema versions available for the type
}

// FileResult holds the issues found in one file, or for one pattern that matched nothing.
type FileResult struct {
	Filename string       `json:"filename"`
	Type     DocumentType `json:"type"`
	Issues   []Issue      `json:"issues"`
}

// Passed reports whether the file had no issues.
func (f FileResult) Passed() bool {
	return len(f.Issues) == 0
}

// RunResult is the ordered collection of file results for a run.
type RunResult struct {
	Files []FileResult `json:"files"`
}

// IssueCount returns the total number of issues across all files.
func (r RunResult) IssueCount() int {
	total := 0
	for _, f := range r.Files {
		total += len(f.Issues)
	}
	return total
}
