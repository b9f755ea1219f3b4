// Package reporting renders lint results for people and for machines.
package reporting

import (
	"fmt"
	"strings"

	"github.com/jonathan/opencontrol-linter/internal/schemas"
	"github.com/jonathan/opencontrol-linter/internal/types"
)

// indent is the left margin of every detail line.
const indent = "        "

// Render returns the detail block for one issue. Unknown kinds use the
// generic layout.
func Render(issue types.Issue) string {
	var b block
	switch issue.Kind {
	case types.KindFieldNotInEnum:
		allowed := formatList(issue.Allowed)
		b.line("At:", fmt.Sprintf("YAML path %s.", issue.Path))
		b.line("Message:", issue.Message)
		b.line("Expected:", fmt.Sprintf("one of %s.", allowed))
		b.line("Actual:", fmt.Sprintf("The value '%s' was found.", issue.Value))
		b.line("To fix this:", fmt.Sprintf("Use one of %s", allowed))
		b.cont(fmt.Sprintf("instead of the value '%s'", issue.Value))
	case types.KindUndefinedKey:
		b.line("At:", fmt.Sprintf("YAML path %s.", issue.Path))
		b.line("Expected:", "A key allowed by the schema.")
		b.line("Actual:", "A key was found that is not defined in the schema")
		b.cont(fmt.Sprintf("(%s).", issue.Path))
		b.line("To fix this:", "It's possible the key found is a typo,")
		b.cont(fmt.Sprintf("Remove %s or correct the key.", issue.Path))
	case types.KindSchemaNotFound:
		b.line("At:", fmt.Sprintf("File path %s.", issue.Path))
		b.line("Expected:", "A valid schema version that is currently supported.")
		b.line("Actual:", "No valid schema file found")
		b.cont(fmt.Sprintf("(%s).", issue.SchemaPath))
		if len(issue.Supported) > 0 {
			b.line("Supported:", strings.Join(issue.Supported, ", "))
		}
		b.line("To fix this:", "Either provide a valid schema file or adjust the schema")
		b.cont("version to a known schema. See")
		b.cont(schemas.DocsURL)
		b.cont("for schemas.")
		b.cont("Typically you will want to correct the schema")
		b.cont("version number indicated in your file at")
		b.cont(issue.Path + ".")
	case types.KindPatternMatchedNothing:
		b.line("At:", fmt.Sprintf("Search pattern %s.", issue.Path))
		b.line("Message:", issue.Message)
		b.line("To fix this:", "Check the pattern and the current directory, or pass")
		b.cont("an explicit pattern on the command line.")
	case types.KindParseError:
		b.line("At:", fmt.Sprintf("File path %s.", issue.Path))
		b.line("Message:", "The file could not be parsed as YAML.")
		b.line("Parser:", issue.Message)
	default:
		b.line("At:", fmt.Sprintf("YAML path %s.", issue.Path))
		b.line("Message:", issue.Message)
	}
	return b.String()
}

// Verbose renders every field of the issue, for debugging schemas.
func Verbose(issue types.Issue) string {
	var b block
	b.line("At:", fmt.Sprintf("YAML path %s.", issue.Path))
	b.line("Message:", issue.Message)
	b.line("Kind:", string(issue.Kind))
	if issue.Value != "" {
		b.line("Value:", issue.Value)
	}
	if len(issue.Allowed) > 0 {
		b.line("Allowed:", formatList(issue.Allowed))
	}
	if issue.SchemaPath != "" {
		b.line("Schema:", issue.SchemaPath)
	}
	return b.String()
}

func formatList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// block lays out "Label:  value" rows with aligned continuation lines.
type block struct {
	sb strings.Builder
}

const labelWidth = 14

func (b *block) line(label, value string) {
	fmt.Fprintf(&b.sb, "%s%-*s%s\n", indent, labelWidth, label, value)
}

func (b *block) cont(value string) {
	fmt.Fprintf(&b.sb, "%s%s%s\n", indent, strings.Repeat(" ", labelWidth), value)
}

func (b *block) String() string {
	return b.sb.String()
}
