// Package schemas holds the versioned OpenControl JSON Schemas shipped with the linter.
//
// Files are laid out as <kind>/v<version>.json, where kind is the singular
// document type (component, standard, certification, opencontrol).
package schemas

import "embed"

// FS contains every bundled schema.
//
//go:embed component standard certification opencontrol
var FS embed.FS
