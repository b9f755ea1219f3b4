// Package schemas locates versioned OpenControl schemas and validates documents against them.
package schemas

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/jonathan/opencontrol-linter/internal/types"
	bundled "github.com/jonathan/opencontrol-linter/schemas"
)

// DefaultVersion is assumed when a document declares no schema_version.
const DefaultVersion = "1.0.0"

// DocsURL points at the published list of supported schema versions.
const DocsURL = "https://github.com/opencontrol/schemas/tree/master/kwalify"

// SchemaRef identifies a type and version specific schema.
type SchemaRef struct {
	Type    types.DocumentType
	Version string
	Path    string // Path inside the locator's filesystem
	Source  string // Human readable origin, e.g. "bundled" or a directory
}

// Display returns the path shown to users in diagnostics.
func (r SchemaRef) Display() string {
	if r.Source == "" || r.Source == bundledSource {
		return r.Path
	}
	return path.Join(r.Source, r.Path)
}

const bundledSource = "bundled"

// NormalizeVersion turns a declared schema_version into the canonical
// major.minor.patch form. YAML numbers such as 3.1 are accepted. Versions
// that cannot be parsed are returned as-is so lookup fails cleanly.
func NormalizeVersion(v any) string {
	var raw string
	switch val := v.(type) {
	case nil:
		return DefaultVersion
	case string:
		raw = strings.TrimSpace(val)
	case int:
		raw = strconv.Itoa(val)
	case int64:
		raw = strconv.FormatInt(val, 10)
	case uint64:
		raw = strconv.FormatUint(val, 10)
	case float64:
		if val == math.Trunc(val) {
			raw = strconv.FormatFloat(val, 'f', 0, 64)
		} else {
			raw = strconv.FormatFloat(val, 'f', -1, 64)
		}
	default:
		raw = fmt.Sprint(val)
	}
	if raw == "" {
		return DefaultVersion
	}

	parsed, err := semver.NewVersion(raw)
	if err != nil {
		return strings.TrimPrefix(raw, "v")
	}
	return parsed.String()
}

// SchemaPath is the pure mapping from (type, version) to schema location.
func SchemaPath(t types.DocumentType, version string) string {
	return fmt.Sprintf("%s/v%s.json", t.Singular(), version)
}

// Locator resolves schemas inside a filesystem.
type Locator struct {
	fsys   fs.FS
	source string
}

// NewLocator returns a locator over an arbitrary filesystem.
func NewLocator(fsys fs.FS, source string) *Locator {
	return &Locator{fsys: fsys, source: source}
}

// NewBundledLocator returns a locator over the schemas compiled into the binary.
func NewBundledLocator() *Locator {
	return NewLocator(bundled.FS, bundledSource)
}

// NewDirLocator returns a locator over a schema directory on disk laid out
// as <kind>/v<version>.json.
func NewDirLocator(dir string) (*Locator, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema directory %s is not a directory", dir)
	}
	return NewLocator(os.DirFS(dir), dir), nil
}

// Locate returns the schema for the type and version. The bool is false
// when no schema exists at the computed location; the returned ref still
// carries the attempted path.
func (l *Locator) Locate(t types.DocumentType, version string) (SchemaRef, bool) {
	ref := SchemaRef{
		Type:    t,
		Version: version,
		Path:    SchemaPath(t, version),
		Source:  l.source,
	}
	if !t.Valid() {
		return ref, false
	}
	info, err := fs.Stat(l.fsys, ref.Path)
	if err != nil || info.IsDir() {
		return ref, false
	}
	return ref, true
}

// Load reads the schema bytes for a located ref.
func (l *Locator) Load(ref SchemaRef) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, ref.Path)
	if err != nil {
		return nil, &SchemaLoadError{Path: ref.Display(), Message: "could not read schema", Cause: err}
	}
	return data, nil
}

// Versions lists the schema versions available for a type, sorted by semver.
func (l *Locator) Versions(t types.DocumentType) []string {
	entries, err := fs.ReadDir(l.fsys, t.Singular())
	if err != nil {
		return []string{}
	}

	versions := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "v") || !strings.HasSuffix(name, ".json") {
			continue
		}
		versions = append(versions, strings.TrimSuffix(strings.TrimPrefix(name, "v"), ".json"))
	}

	sort.Slice(versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(versions[i])
		vj, errj := semver.NewVersion(versions[j])
		if erri != nil || errj != nil {
			return versions[i] < versions[j]
		}
		return vi.LessThan(vj)
	})
	return versions
}
