// Package linter runs document validation across every target of a run
// specification and aggregates the results.
package linter

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// DocumentValidator validates one file of a known document type.
type DocumentValidator interface {
	Validate(docType types.DocumentType, path string) []types.Issue
}

// ResultReporter receives file results as they complete and the final total.
type ResultReporter interface {
	ReportFile(result types.FileResult) error
	Summary(total int) error
}

// GlobFunc expands a pattern into file paths.
type GlobFunc func(pattern string) ([]string, error)

// Linter coordinates pattern expansion, validation and reporting.
type Linter struct {
	validator DocumentValidator
	reporter  ResultReporter
	glob      GlobFunc
	jobs      int
	logger    *zap.Logger
}

// Option configures a Linter.
type Option func(*Linter)

// WithJobs validates up to n files of a target concurrently. n <= 1 is sequential.
func WithJobs(n int) Option {
	return func(l *Linter) { l.jobs = n }
}

// WithGlob replaces the filesystem glob.
func WithGlob(glob GlobFunc) Option {
	return func(l *Linter) { l.glob = glob }
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Linter.
func New(validator DocumentValidator, reporter ResultReporter, opts ...Option) *Linter {
	l := &Linter{
		validator: validator,
		reporter:  reporter,
		glob:      Glob,
		jobs:      1,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Glob expands ** aware patterns against the OS filesystem and drops
// directories. Match order is whatever doublestar yields, which follows
// directory listing order and is not guaranteed across platforms.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err == nil && info.IsDir() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

// NotFoundMessage is attached to the issue emitted for an empty pattern.
const NotFoundMessage = "No validation files found for the pattern supplied. Adding an issue to avoid failing silently."

// Run validates every target in order and prints the summary. The
// returned result's IssueCount is the run status. Errors are returned only
// for cancellation or when the reporter cannot write.
func (l *Linter) Run(ctx context.Context, spec types.RunSpecification) (types.RunResult, error) {
	result := types.RunResult{Files: []types.FileResult{}}

	for _, target := range spec.Targets {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		files, err := l.runTarget(ctx, target)
		result.Files = append(result.Files, files...)
		if err != nil {
			return result, err
		}
	}

	total := result.IssueCount()
	l.logger.Debug("run complete",
		zap.Int("files", len(result.Files)),
		zap.Int("issues", total))
	if err := l.reporter.Summary(total); err != nil {
		return result, fmt.Errorf("failed to write summary: %w", err)
	}
	return result, nil
}

func (l *Linter) runTarget(ctx context.Context, target types.Target) ([]types.FileResult, error) {
	paths, err := l.glob(target.Pattern)
	if err != nil {
		fr := types.FileResult{
			Filename: target.Pattern,
			Type:     target.Type,
			Issues: []types.Issue{{
				Kind:    types.KindGeneric,
				Path:    target.Pattern,
				Message: fmt.Sprintf("invalid search pattern: %v", err),
			}},
		}
		return []types.FileResult{fr}, l.report(fr)
	}

	l.logger.Debug("expanded pattern",
		zap.String("type", string(target.Type)),
		zap.String("pattern", target.Pattern),
		zap.Int("matches", len(paths)))

	if len(paths) == 0 {
		fr := types.FileResult{
			Filename: target.Pattern,
			Type:     target.Type,
			Issues: []types.Issue{{
				Kind:    types.KindPatternMatchedNothing,
				Path:    target.Pattern,
				Message: NotFoundMessage,
			}},
		}
		return []types.FileResult{fr}, l.report(fr)
	}

	if l.jobs <= 1 {
		return l.validateSequential(ctx, target.Type, paths)
	}
	return l.validateConcurrent(ctx, target.Type, paths)
}

func (l *Linter) validateSequential(ctx context.Context, docType types.DocumentType, paths []string) ([]types.FileResult, error) {
	results := make([]types.FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fr := l.validateFile(docType, path)
		results = append(results, fr)
		if err := l.report(fr); err != nil {
			return results, err
		}
	}
	return results, nil
}

// validateConcurrent fans out over a bounded pool, then reports in match order.
func (l *Linter) validateConcurrent(ctx context.Context, docType types.DocumentType, paths []string) ([]types.FileResult, error) {
	results := make([]types.FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = l.validateFile(docType, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range results {
		if err := l.report(fr); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (l *Linter) validateFile(docType types.DocumentType, path string) types.FileResult {
	issues := l.validator.Validate(docType, path)
	if issues == nil {
		issues = []types.Issue{}
	}
	return types.FileResult{Filename: path, Type: docType, Issues: issues}
}

func (l *Linter) report(fr types.FileResult) error {
	if err := l.reporter.ReportFile(fr); err != nil {
		return fmt.Errorf("failed to report %s: %w", fr.Filename, err)
	}
	return nil
}
