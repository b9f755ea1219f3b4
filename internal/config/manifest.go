package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// ManifestError represents a manifest that exists but cannot be used
type ManifestError struct {
	Path  string
	Cause error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("failed to load manifest %s: %v", e.Path, e.Cause)
}

func (e *ManifestError) Unwrap() error {
	return e.Cause
}

// Manifest is the part of opencontrol.yaml the resolver reads. All other
// keys are ignored here; the file's content is validated separately as an
// opencontrols document.
type Manifest struct {
	Path           string   `yaml:"-"`
	Components     []string `yaml:"components"`
	Standards      []string `yaml:"standards"`
	Certifications []string `yaml:"certifications"`
}

// LoadManifest reads the manifest at path. A missing file is not an error:
// it returns (nil, nil) so every type falls through to the preset.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ManifestError{Path: path, Cause: err}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestError{Path: path, Cause: err}
	}
	m.Path = path
	return &m, nil
}

// Patterns returns the manifest's patterns for t, resolved against the
// manifest's directory. Nil means the manifest does not declare t.
func (m *Manifest) Patterns(t types.DocumentType) []string {
	if m == nil {
		return nil
	}

	var declared []string
	switch t {
	case types.Components:
		declared = m.Components
	case types.Standards:
		declared = m.Standards
	case types.Certifications:
		declared = m.Certifications
	case types.OpenControls:
		if m.Path != "" {
			declared = []string{m.Path}
		}
		return declared
	}
	if len(declared) == 0 {
		return nil
	}

	dir := filepath.Dir(m.Path)
	patterns := make([]string, 0, len(declared))
	for _, p := range declared {
		if dir != "." && !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		patterns = append(patterns, p)
	}
	return patterns
}
