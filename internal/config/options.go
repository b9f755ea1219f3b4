package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// Selection records how a document type was requested on the command line.
type Selection struct {
	Selected bool   // The type's flag was given
	Pattern  string // Explicit pattern; empty for a bare flag
}

// Options is the parsed command line. All fields are optional.
type Options struct {
	Help        bool
	Version     bool
	All         bool
	ListSchemas bool
	Selections  map[types.DocumentType]Selection

	ManifestPath  string
	SchemaDir     string
	Format        string `validate:"omitempty,oneof=text json"`
	Jobs          int    `validate:"gte=0,lte=256"`
	LogLevel      string `validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	VerboseIssues bool
}

// Select marks t as requested, with an optional explicit pattern.
func (o *Options) Select(t types.DocumentType, pattern string) {
	if o.Selections == nil {
		o.Selections = make(map[types.DocumentType]Selection)
	}
	o.Selections[t] = Selection{Selected: true, Pattern: pattern}
}

// ShortCircuits reports whether the run ends before any target is resolved.
func (o *Options) ShortCircuits() bool {
	return o.Help || o.Version || o.ListSchemas
}

var validate = validator.New()

// Validate checks option values and rejects unknown document types.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	for t := range o.Selections {
		if !t.Valid() {
			return &types.UnknownTypeError{Name: string(t)}
		}
	}
	return nil
}
