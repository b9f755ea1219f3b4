package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/opencontrol-linter/internal/config"
	"github.com/jonathan/opencontrol-linter/internal/linter"
	"github.com/jonathan/opencontrol-linter/internal/logging"
	"github.com/jonathan/opencontrol-linter/internal/reporting"
	"github.com/jonathan/opencontrol-linter/internal/schemas"
	"github.com/jonathan/opencontrol-linter/internal/types"
	"github.com/jonathan/opencontrol-linter/internal/validation"
)

// exitConfigError is returned for configuration mistakes that stop the run
// before any document is read.
const exitConfigError = 255

// maxIssueStatus caps the issue count as an exit status so large counts
// never wrap to 0 and never collide with exitConfigError.
const maxIssueStatus = 254

// loadEnv reads .env into the process environment.
var loadEnv = func() error { return godotenv.Load() }

type cliFlags struct {
	help          bool
	version       bool
	all           bool
	listSchemas   bool
	patterns      map[types.DocumentType]*string
	manifest      string
	schemaDir     string
	format        string
	jobs          int
	logLevel      string
	verboseIssues bool
}

// newRootCmd builds the command. The issue count of a lint run is stored
// in *status.
func newRootCmd(stdout, stderr io.Writer, status *int) *cobra.Command {
	cmd, _ := newCommand(stdout, stderr, status)
	return cmd
}

func newCommand(stdout, stderr io.Writer, status *int) (*cobra.Command, *cliFlags) {
	flags := &cliFlags{patterns: map[types.DocumentType]*string{}}

	cmd := &cobra.Command{
		Use:           "opencontrol-linter",
		Short:         "Lint OpenControl components, standards, certifications and manifests",
		Long:          "opencontrol-linter validates OpenControl compliance documents against their versioned schemas and exits with the number of issues found.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := runLint(cmd.Context(), cmd, flags, stdout, stderr)
			*status = n
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		_, _ = fmt.Fprint(c.OutOrStdout(), usageText)
	})

	fs := cmd.Flags()
	fs.SetNormalizeFunc(normalizeFlagName)
	fs.BoolVarP(&flags.help, "help", "h", false, "show this help message and exit")
	fs.BoolVarP(&flags.version, "version", "v", false, "show the version of this utility")
	fs.BoolVarP(&flags.all, "all", "a", false, "run all types of validations")

	shorthands := map[types.DocumentType]string{
		types.Components:     "c",
		types.Standards:      "s",
		types.Certifications: "n",
		types.OpenControls:   "o",
	}
	for _, t := range types.AllDocumentTypes() {
		pattern := new(string)
		flags.patterns[t] = pattern
		fs.StringVarP(pattern, string(t), shorthands[t], "", fmt.Sprintf("check %s files, optionally with a search pattern", t.Singular()))
		fs.Lookup(string(t)).NoOptDefVal = bareFlag
	}

	fs.StringVar(&flags.manifest, "manifest", config.DefaultManifestPath, "project manifest to read search paths from (env OPENCONTROL_MANIFEST)")
	fs.StringVar(&flags.schemaDir, "schema-dir", "", "directory of <kind>/v<version>.json schemas (env OPENCONTROL_SCHEMA_DIR)")
	fs.StringVar(&flags.format, "format", "text", "output format: text or json")
	fs.IntVar(&flags.jobs, "jobs", 1, "files validated concurrently per search")
	fs.StringVar(&flags.logLevel, "log-level", logging.DefaultLevel, "log level: debug, info, warn or error (env LOG_LEVEL)")
	fs.BoolVar(&flags.verboseIssues, "verbose-issues", false, "print every field of each issue")
	fs.BoolVar(&flags.listSchemas, "list-schemas", false, "show supported schema versions")

	return cmd, flags
}

func (f *cliFlags) options(cmd *cobra.Command) config.Options {
	opts := config.Options{
		Help:          f.help,
		Version:       f.version,
		All:           f.all,
		ListSchemas:   f.listSchemas,
		ManifestPath:  f.manifest,
		SchemaDir:     f.schemaDir,
		Format:        f.format,
		Jobs:          f.jobs,
		LogLevel:      f.logLevel,
		VerboseIssues: f.verboseIssues,
	}
	for _, t := range types.AllDocumentTypes() {
		if !cmd.Flags().Changed(string(t)) {
			continue
		}
		pattern := *f.patterns[t]
		if pattern == bareFlag {
			pattern = ""
		}
		opts.Select(t, pattern)
	}
	return opts
}

// applyEnv fills flags the user did not set from the environment.
func applyEnv(cmd *cobra.Command, opts *config.Options) {
	fallback := func(flag, key string, dst *string) {
		if cmd.Flags().Changed(flag) {
			return
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	fallback("manifest", "OPENCONTROL_MANIFEST", &opts.ManifestPath)
	fallback("schema-dir", "OPENCONTROL_SCHEMA_DIR", &opts.SchemaDir)
	fallback("log-level", "LOG_LEVEL", &opts.LogLevel)
}

func runLint(ctx context.Context, cmd *cobra.Command, flags *cliFlags, stdout, stderr io.Writer) (int, error) {
	opts := flags.options(cmd)

	// help and version never touch the filesystem, .env included
	if !opts.Help && !opts.Version {
		_ = loadEnv()
		applyEnv(cmd, &opts)
	}

	if err := opts.Validate(); err != nil {
		return 0, err
	}

	logger := logging.New(opts.LogLevel, stderr).Named("opencontrol-linter")
	defer func() { _ = logger.Sync() }()

	// the manifest is only read when documents will be linted
	var manifest *config.Manifest
	if !opts.ShortCircuits() {
		var err error
		manifest, err = config.LoadManifest(opts.ManifestPath)
		if err != nil {
			return 0, err
		}
		if manifest == nil {
			logger.Debug("no manifest found, using defaults", zap.String("path", opts.ManifestPath))
		}
	}

	spec, err := config.Resolve(opts, manifest, config.DefaultPreset(), os.Stat)
	if err != nil {
		return 0, err
	}

	switch spec.Action {
	case types.ActionHelp:
		_, err := fmt.Fprint(stdout, usageText)
		return 0, err
	case types.ActionVersion:
		_, err := fmt.Fprintf(stdout, "Opencontrol linter version: v%s\n", version)
		return 0, err
	}

	locator := schemas.NewBundledLocator()
	if opts.SchemaDir != "" {
		locator, err = schemas.NewDirLocator(opts.SchemaDir)
		if err != nil {
			return 0, err
		}
	}

	if spec.Action == types.ActionListSchemas {
		for _, t := range types.AllDocumentTypes() {
			if _, err := fmt.Fprintf(stdout, "%s: %s\n", t, strings.Join(locator.Versions(t), ", ")); err != nil {
				return 0, err
			}
		}
		return 0, nil
	}

	for _, target := range spec.Targets {
		logger.Debug("target", zap.String("type", string(target.Type)), zap.String("pattern", target.Pattern))
	}

	format, err := reporting.ParseFormat(opts.Format)
	if err != nil {
		return 0, err
	}

	l := linter.New(
		validation.New(locator, logger.Named("validation")),
		reporting.NewReporter(stdout, format, opts.VerboseIssues),
		linter.WithJobs(opts.Jobs),
		linter.WithLogger(logger.Named("linter")),
	)
	result, err := l.Run(ctx, spec)
	return result.IssueCount(), err
}

// runCLI executes the CLI and returns the raw issue count of a lint run, 0
// for help and version.
func runCLI(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	count := 0
	cmd := newRootCmd(stdout, stderr, &count)
	cmd.SetArgs(normalizeArgs(args))

	if err := cmd.ExecuteContext(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

// execute runs the CLI and returns the process exit status.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	count, err := runCLI(ctx, args, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitStatus(count, err)
}

// exitStatus maps a run outcome to an exit status: exitConfigError for
// errors, otherwise the issue count capped at maxIssueStatus.
func exitStatus(count int, err error) int {
	switch {
	case err != nil:
		return exitConfigError
	case count > maxIssueStatus:
		return maxIssueStatus
	default:
		return count
	}
}
