package config

import (
	"io/fs"
	"os"
	"strings"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// StatFunc reports file information; os.Stat in production.
type StatFunc func(name string) (fs.FileInfo, error)

// componentFile is appended to component patterns that name a directory.
const componentFile = "component.yaml"

// Resolve builds the run specification from the command line, the
// optional manifest and the preset.
//
// For each selected type an explicit command-line pattern wins; otherwise
// the manifest's patterns are used, and the preset fills any type the
// manifest does not declare. With no type flags, or with All, every type
// is selected. Help and Version short-circuit without touching stat.
func Resolve(opts Options, manifest *Manifest, preset Preset, stat StatFunc) (types.RunSpecification, error) {
	switch {
	case opts.Help:
		return types.RunSpecification{Action: types.ActionHelp}, nil
	case opts.Version:
		return types.RunSpecification{Action: types.ActionVersion}, nil
	case opts.ListSchemas:
		return types.RunSpecification{Action: types.ActionListSchemas}, nil
	}

	anySelected := false
	for t, sel := range opts.Selections {
		if !t.Valid() {
			return types.RunSpecification{}, &types.UnknownTypeError{Name: string(t)}
		}
		anySelected = anySelected || sel.Selected
	}
	selectAll := opts.All || !anySelected

	if stat == nil {
		stat = os.Stat
	}

	spec := types.RunSpecification{Action: types.ActionRun, Targets: []types.Target{}}
	for _, t := range types.AllDocumentTypes() {
		sel := opts.Selections[t]
		if !selectAll && !sel.Selected {
			continue
		}

		if sel.Pattern != "" {
			spec.Targets = append(spec.Targets, types.Target{Type: t, Pattern: sel.Pattern})
			continue
		}

		patterns := manifest.Patterns(t)
		if len(patterns) == 0 {
			patterns = preset.Patterns(t)
		}
		for _, p := range patterns {
			if t == types.Components {
				p = expandDirectory(p, stat)
			}
			spec.Targets = append(spec.Targets, types.Target{Type: t, Pattern: p})
		}
	}
	return spec, nil
}

// expandDirectory turns a component directory into its component.yaml path.
func expandDirectory(pattern string, stat StatFunc) string {
	info, err := stat(pattern)
	if err != nil || !info.IsDir() {
		return pattern
	}
	return strings.TrimRight(pattern, "/") + "/" + componentFile
}
