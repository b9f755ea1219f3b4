package linter

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/opencontrol-linter/internal/reporting"
	"github.com/jonathan/opencontrol-linter/internal/schemas"
	"github.com/jonathan/opencontrol-linter/internal/types"
	"github.com/jonathan/opencontrol-linter/internal/validation"
)

const fixtures = "../../testdata"

func fixture(rel string) string {
	return filepath.Join(fixtures, rel)
}

func runSpec(t *testing.T, targets ...types.Target) (types.RunResult, string) {
	t.Helper()
	var out bytes.Buffer
	l := New(
		validation.New(schemas.NewBundledLocator(), nil),
		reporting.NewReporter(&out, reporting.FormatText, false),
	)
	result, err := l.Run(context.Background(), types.RunSpecification{Action: types.ActionRun, Targets: targets})
	require.NoError(t, err)
	return result, out.String()
}

func TestRun_ConformingFiles(t *testing.T) {
	tests := []types.Target{
		{Type: types.Components, Pattern: fixture("no_issues/components/AU_policy/component.yaml")},
		{Type: types.Standards, Pattern: fixture("no_issues/standards/FRIST-800-53.yaml")},
		{Type: types.Certifications, Pattern: fixture("no_issues/certifications/FredRAMP-low.yaml")},
		{Type: types.OpenControls, Pattern: fixture("no_issues/opencontrol.yaml")},
	}
	for _, target := range tests {
		t.Run(string(target.Type), func(t *testing.T) {
			result, out := runSpec(t, target)
			assert.Equal(t, 0, result.IssueCount())
			assert.Contains(t, out, "Complete. No problems found.")
			assert.Contains(t, out, "✓ "+target.Pattern)
		})
	}
}

func TestRun_OneFaultPerFile(t *testing.T) {
	tests := []types.Target{
		{Type: types.Components, Pattern: fixture("issues/components/AU_policy/component.yaml")},
		{Type: types.Standards, Pattern: fixture("issues/standards/FRIST-800-53.yaml")},
		{Type: types.Certifications, Pattern: fixture("issues/certifications/FredRAMP-low.yaml")},
		{Type: types.OpenControls, Pattern: fixture("issues/opencontrol.yaml")},
	}
	for _, target := range tests {
		t.Run(string(target.Type), func(t *testing.T) {
			result, out := runSpec(t, target)
			assert.Equal(t, 1, result.IssueCount())
			assert.Contains(t, out, "Complete. 1 issues found.")
			assert.Contains(t, out, "✗ "+target.Pattern)
		})
	}
}

func TestRun_PatternMatchesNothing(t *testing.T) {
	pattern := fixture("empty/**/component.yaml")
	result, out := runSpec(t, types.Target{Type: types.Components, Pattern: pattern})

	assert.Equal(t, 1, result.IssueCount())
	require.Len(t, result.Files, 1)
	assert.Equal(t, pattern, result.Files[0].Filename)
	assert.Equal(t, types.KindPatternMatchedNothing, result.Files[0].Issues[0].Kind)
	assert.Contains(t, out, "Complete. 1 issues found.")
	assert.Contains(t, out, "Search pattern "+pattern)
}

func TestRun_BadYAML(t *testing.T) {
	result, out := runSpec(t, types.Target{Type: types.Components, Pattern: fixture("bad_yaml/component_of_bad.yaml")})
	assert.Equal(t, 1, result.IssueCount())
	assert.Equal(t, types.KindParseError, result.Files[0].Issues[0].Kind)
	assert.Contains(t, out, "Complete. 1 issues found.")
}

func TestRun_RecursivePatternAcrossFixtures(t *testing.T) {
	result, _ := runSpec(t, types.Target{Type: types.Components, Pattern: fixture("*/components/**/component.yaml")})

	assert.Len(t, result.Files, 3, "issues, no_issues and unknown_version components")
	// one enum violation plus one missing schema
	assert.Equal(t, 2, result.IssueCount())
}

func TestRun_MixedTargetsKeepOrder(t *testing.T) {
	result, out := runSpec(t,
		types.Target{Type: types.Standards, Pattern: fixture("issues/standards/*.yaml")},
		types.Target{Type: types.Certifications, Pattern: fixture("nowhere/*.yaml")},
		types.Target{Type: types.OpenControls, Pattern: fixture("no_issues/opencontrol.yaml")},
	)

	require.Len(t, result.Files, 3)
	assert.Equal(t, types.Standards, result.Files[0].Type)
	assert.Equal(t, types.Certifications, result.Files[1].Type)
	assert.Equal(t, types.OpenControls, result.Files[2].Type)
	assert.Equal(t, 2, result.IssueCount())
	assert.Contains(t, out, "Complete. 2 issues found.")
}

func TestRun_InvalidPattern(t *testing.T) {
	result, _ := runSpec(t, types.Target{Type: types.Standards, Pattern: fixture("standards/[.yaml")})
	require.Len(t, result.Files, 1)
	assert.Equal(t, 1, result.IssueCount())
	assert.Equal(t, types.KindGeneric, result.Files[0].Issues[0].Kind)
}

func TestRun_Idempotent(t *testing.T) {
	target := types.Target{Type: types.Components, Pattern: fixture("*/components/**/component.yaml")}
	first, firstOut := runSpec(t, target)
	second, secondOut := runSpec(t, target)

	assert.Equal(t, first.IssueCount(), second.IssueCount())
	assert.Equal(t, firstOut, secondOut)
}

func TestRun_NoTargets(t *testing.T) {
	result, out := runSpec(t)
	assert.Equal(t, 0, result.IssueCount())
	assert.Equal(t, "Complete. No problems found.\n", out)
}

type countingValidator struct {
	mu    sync.Mutex
	calls []string
}

func (v *countingValidator) Validate(_ types.DocumentType, path string) []types.Issue {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, path)
	if path == "b.yaml" || path == "d.yaml" {
		return []types.Issue{{Kind: types.KindGeneric, Path: "/", Message: "bad " + path}}
	}
	return nil
}

type recordingReporter struct {
	files   []string
	total   int
	failErr error
}

func (r *recordingReporter) ReportFile(fr types.FileResult) error {
	r.files = append(r.files, fr.Filename)
	return r.failErr
}

func (r *recordingReporter) Summary(total int) error {
	r.total = total
	return nil
}

func staticGlob(matches map[string][]string) GlobFunc {
	return func(pattern string) ([]string, error) {
		return matches[pattern], nil
	}
}

func TestRun_ConcurrentKeepsMatchOrder(t *testing.T) {
	glob := staticGlob(map[string][]string{"*.yaml": {"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"}})
	validator := &countingValidator{}
	reporter := &recordingReporter{}

	l := New(validator, reporter, WithGlob(glob), WithJobs(3))
	result, err := l.Run(context.Background(), types.RunSpecification{
		Action:  types.ActionRun,
		Targets: []types.Target{{Type: types.Standards, Pattern: "*.yaml"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.yaml", "b.yaml", "c.yaml", "d.yaml", "e.yaml"}, reporter.files)
	assert.Len(t, validator.calls, 5)
	assert.Equal(t, 2, result.IssueCount())
	assert.Equal(t, 2, reporter.total)
	for _, fr := range result.Files {
		assert.NotNil(t, fr.Issues)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reporter := &recordingReporter{}
	l := New(&countingValidator{}, reporter, WithGlob(staticGlob(nil)))
	_, err := l.Run(ctx, types.RunSpecification{Targets: []types.Target{{Type: types.Standards, Pattern: "*.yaml"}}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reporter.files)
}

func TestRun_ReporterFailure(t *testing.T) {
	reporter := &recordingReporter{failErr: errors.New("broken pipe")}
	l := New(&countingValidator{}, reporter, WithGlob(staticGlob(map[string][]string{"*.yaml": {"a.yaml", "b.yaml"}})))

	_, err := l.Run(context.Background(), types.RunSpecification{Targets: []types.Target{{Type: types.Standards, Pattern: "*.yaml"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
	assert.Equal(t, []string{"a.yaml"}, reporter.files)
}
