package main

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.6"

const usageText = `usage: opencontrol-linter

optional arguments:
  -h, --help            show this help message and exit
  -c, --components
                        Specify component files should be checked. Defaults to
                        true. Searches ./components/**/component.yaml, the
                        components listed in opencontrol.yaml, or the search
                        you optionally specify.
  -n, --certifications
                        Specify certification (eg FISMA high) files should be
                        checked. Defaults to true. Searches
                        ./certifications/*.yaml or the search you optionally
                        specify.
  -s, --standards
                        Specify standard files (eg NIST 800.53) should be
                        checked. Defaults to true. Searches ./standards/*.yaml
                        or the search you optionally specify.
  -o, --opencontrols, --opencontrol
                        Specify opencontrol file or files should be
                        checked. Defaults to true. Searches ./opencontrol.yaml
                        or the search you optionally specify.
  -a, --all             Run all types of validations (this is the default).
  -v, --version         Show the version of this utility.

      --manifest PATH   Project manifest to read search paths from
                        (default ./opencontrol.yaml, env OPENCONTROL_MANIFEST).
      --schema-dir DIR  Load schemas from DIR (<kind>/v<version>.json) instead
                        of the bundled set (env OPENCONTROL_SCHEMA_DIR).
      --list-schemas    Show the supported schema versions per document type.
      --format FORMAT   Output format: text (default) or json.
      --jobs N          Validate up to N files of a search concurrently.
      --verbose-issues  Print every field of each issue.
      --log-level LEVEL debug, info, warn (default) or error (env LOG_LEVEL).

Usage examples:

    # lint all components, standards and certifications in the current directory
     opencontrol-linter

    # lint all components subdir components
     opencontrol-linter --components './components/**/component.yaml'

    # lint all standards files found
     opencontrol-linter --standards

    # lint one component
     opencontrol-linter --components './components/AU_policy/component.yaml'

The exit status is the number of issues found.
`
