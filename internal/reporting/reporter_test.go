package reporting

import (
	"bytes"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

var enumIssue = types.Issue{
	Kind:    types.KindFieldNotInEnum,
	Path:    "/satisfies/0/implementation_status",
	Message: "satisfies.0.implementation_status must be one of the following: \"partial\", \"complete\"",
	Value:   "in progress",
	Allowed: []string{"partial", "complete"},
}

func TestRender_ByKind(t *testing.T) {
	tests := []struct {
		name  string
		issue types.Issue
		want  []string
	}{
		{
			name:  "field not in enum",
			issue: enumIssue,
			want: []string{
				"YAML path /satisfies/0/implementation_status.",
				`one of ["partial", "complete"].`,
				"The value 'in progress' was found.",
				"instead of the value 'in progress'",
			},
		},
		{
			name:  "undefined key",
			issue: types.Issue{Kind: types.KindUndefinedKey, Path: "/metadata/maintainer", Value: "maintainer"},
			want: []string{
				"A key allowed by the schema.",
				"(/metadata/maintainer).",
				"typo",
				"Remove /metadata/maintainer or correct the key.",
			},
		},
		{
			name: "schema not found",
			issue: types.Issue{
				Kind:       types.KindSchemaNotFound,
				Path:       "components/AU_policy/component.yaml",
				SchemaPath: "component/v9.9.9.json",
				Supported:  []string{"2.0.0", "3.0.0"},
			},
			want: []string{
				"File path components/AU_policy/component.yaml.",
				"(component/v9.9.9.json).",
				"2.0.0, 3.0.0",
				"https://github.com/opencontrol/schemas",
			},
		},
		{
			name:  "pattern matched nothing",
			issue: types.Issue{Kind: types.KindPatternMatchedNothing, Path: "./standards/*.yaml", Message: "No validation files found"},
			want:  []string{"Search pattern ./standards/*.yaml.", "No validation files found"},
		},
		{
			name:  "parse error",
			issue: types.Issue{Kind: types.KindParseError, Path: "bad.yaml", Message: "yaml: line 6: did not find expected key"},
			want:  []string{"File path bad.yaml.", "yaml: line 6: did not find expected key"},
		},
		{
			name:  "generic",
			issue: types.Issue{Kind: types.KindGeneric, Path: "/", Message: "name is required"},
			want:  []string{"YAML path /.", "name is required"},
		},
		{
			name:  "unrecognized kind falls back to generic",
			issue: types.Issue{Kind: types.IssueKind("pattern-too-greedy"), Path: "/x", Message: "raw engine message"},
			want:  []string{"YAML path /x.", "raw engine message"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Render(tt.issue)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
				assert.True(t, strings.HasPrefix(line, indent), "detail lines are indented: %q", line)
			}
		})
	}
}

func TestVerbose(t *testing.T) {
	text := Verbose(enumIssue)
	assert.Contains(t, text, "field-not-in-enum")
	assert.Contains(t, text, "in progress")
	assert.Contains(t, text, `["partial", "complete"]`)
}

func TestReporter_Text(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, FormatText, false)

	require.NoError(t, r.ReportFile(types.FileResult{Filename: "ok.yaml", Issues: []types.Issue{}}))
	require.NoError(t, r.ReportFile(types.FileResult{Filename: "bad.yaml", Issues: []types.Issue{enumIssue}}))
	require.NoError(t, r.Summary(1))

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "✓ ok.yaml", lines[0])
	assert.Equal(t, "✗ bad.yaml", lines[1])
	assert.Contains(t, out.String(), Render(enumIssue))
	assert.True(t, strings.HasSuffix(out.String(), "Complete. 1 issues found.\n"))
}

func TestReporter_TextVerbose(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, FormatText, true)
	require.NoError(t, r.ReportFile(types.FileResult{Filename: "bad.yaml", Issues: []types.Issue{enumIssue}}))
	assert.Contains(t, out.String(), "Kind:")
}

func TestReporter_JSON(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, FormatJSON, false)

	require.NoError(t, r.ReportFile(types.FileResult{Filename: "bad.yaml", Type: types.Components, Issues: []types.Issue{enumIssue}}))
	assert.Empty(t, out.String(), "JSON is only written at summary time")
	require.NoError(t, r.Summary(1))

	var decoded jsonReport
	require.NoError(t, gojson.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 1, decoded.IssueCount)
	assert.Equal(t, "Complete. 1 issues found.", decoded.Summary)
	require.Len(t, decoded.Files, 1)
	assert.Equal(t, types.KindFieldNotInEnum, decoded.Files[0].Issues[0].Kind)
}

func TestReporter_JSONEmptyRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewReporter(&out, FormatJSON, false).Summary(0))

	var decoded map[string]any
	require.NoError(t, gojson.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []any{}, decoded["files"])
	assert.Equal(t, float64(0), decoded["issue_count"])
}

func TestSummaryLine(t *testing.T) {
	assert.Equal(t, "Complete. No problems found.", SummaryLine(0))
	assert.Equal(t, "Complete. 3 issues found.", SummaryLine(3))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "json", f.String())

	_, err = ParseFormat("sarif")
	assert.Error(t, err)
}
