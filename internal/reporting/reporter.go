package reporting

import (
	"fmt"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// Format represents the output format for reporting results.
type Format int

const (
	// FormatText prints a status line per file followed by issue details.
	FormatText Format = iota
	// FormatJSON prints one JSON document once the run completes.
	FormatJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat maps a flag value to a Format. Empty means text.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unsupported format: %s", name)
	}
}

const (
	passMarker = "✓"
	failMarker = "✗"
)

// Reporter writes file results and the final summary.
// It is safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	writer  io.Writer
	format  Format
	verbose bool
	files   []types.FileResult
}

// NewReporter creates a Reporter with the specified output writer and format.
// When verbose is set every issue is rendered with all of its fields.
func NewReporter(writer io.Writer, format Format, verbose bool) *Reporter {
	return &Reporter{
		writer:  writer,
		format:  format,
		verbose: verbose,
	}
}

// ReportFile records one file's result and, for text output, prints it.
func (r *Reporter) ReportFile(result types.FileResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, result)
	if r.format != FormatText {
		return nil
	}

	if result.Passed() {
		_, err := fmt.Fprintf(r.writer, "%s %s\n", passMarker, result.Filename)
		return err
	}

	if _, err := fmt.Fprintf(r.writer, "%s %s\n", failMarker, result.Filename); err != nil {
		return err
	}
	for _, issue := range result.Issues {
		text := Render(issue)
		if r.verbose {
			text = Verbose(issue)
		}
		if _, err := io.WriteString(r.writer, text); err != nil {
			return err
		}
	}
	return nil
}

// SummaryLine is the one-line run summary for the given issue count.
func SummaryLine(total int) string {
	if total == 0 {
		return "Complete. No problems found."
	}
	return fmt.Sprintf("Complete. %d issues found.", total)
}

// jsonReport is the document emitted by FormatJSON.
type jsonReport struct {
	Files      []types.FileResult `json:"files"`
	IssueCount int                `json:"issue_count"`
	Summary    string             `json:"summary"`
}

// Summary prints the final line (text) or the whole report (JSON).
func (r *Reporter) Summary(total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.format {
	case FormatText:
		_, err := fmt.Fprintln(r.writer, SummaryLine(total))
		return err
	case FormatJSON:
		files := r.files
		if files == nil {
			files = []types.FileResult{}
		}
		encoder := gojson.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(jsonReport{Files: files, IssueCount: total, Summary: SummaryLine(total)}); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}
