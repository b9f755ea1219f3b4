// Package config resolves which OpenControl documents a run validates.
//
// Patterns come from three tiers, highest precedence first: command-line
// overrides, the project manifest (opencontrol.yaml), and the built-in preset.
package config

import "github.com/jonathan/opencontrol-linter/internal/types"

// DefaultManifestPath is where the project manifest is looked for.
const DefaultManifestPath = "./opencontrol.yaml"

// Preset is the immutable table of built-in default patterns per document type.
type Preset struct {
	patterns map[types.DocumentType][]string
}

// DefaultPreset returns the built-in defaults.
func DefaultPreset() Preset {
	return NewPreset(map[types.DocumentType][]string{
		types.Components:     {"./components/**/component.yaml"},
		types.Standards:      {"./standards/*.yaml"},
		types.Certifications: {"./certifications/*.yaml"},
		types.OpenControls:   {DefaultManifestPath},
	})
}

// NewPreset copies patterns into a new preset.
func NewPreset(patterns map[types.DocumentType][]string) Preset {
	p := Preset{patterns: make(map[types.DocumentType][]string, len(patterns))}
	for t, list := range patterns {
		p.patterns[t] = append([]string(nil), list...)
	}
	return p
}

// Patterns returns a copy of the default patterns for t.
func (p Preset) Patterns(t types.DocumentType) []string {
	return append([]string(nil), p.patterns[t]...)
}

// Targets returns every preset pattern as targets, in document type order.
func (p Preset) Targets() []types.Target {
	var targets []types.Target
	for _, t := range types.AllDocumentTypes() {
		for _, pattern := range p.patterns[t] {
			targets = append(targets, types.Target{Type: t, Pattern: pattern})
		}
	}
	return targets
}
