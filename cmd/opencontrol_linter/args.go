package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// bareFlag is the value a type flag takes when given without a pattern.
const bareFlag = "\x00"

// typeFlags maps every spelling of a document type flag to its canonical name.
var typeFlags = map[string]types.DocumentType{
	"--components":     types.Components,
	"--component":      types.Components,
	"-c":               types.Components,
	"--standards":      types.Standards,
	"--standard":       types.Standards,
	"-s":               types.Standards,
	"--certifications": types.Certifications,
	"--certification":  types.Certifications,
	"-n":               types.Certifications,
	"--opencontrols":   types.OpenControls,
	"--opencontrol":    types.OpenControls,
	"-o":               types.OpenControls,
}

// normalizeArgs lets a bare type flag take the following token as its
// pattern ("--components ./x.yaml"); pflag alone would treat the token as
// a positional argument because the flags' value is optional. Empty
// tokens are dropped.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "" {
			continue
		}
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}

		docType, ok := typeFlags[arg]
		if ok && i+1 < len(args) && args[i+1] != "" && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, "--"+string(docType)+"="+args[i+1])
			i++
			continue
		}
		out = append(out, arg)
	}
	return out
}

// normalizeFlagName folds singular aliases into the canonical plural flags.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if docType, err := types.ParseDocumentType(name); err == nil {
		return pflag.NormalizedName(docType)
	}
	return pflag.NormalizedName(name)
}
