package schemas

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/opencontrol-linter/internal/types"
)

// SchemaLoadError represents errors loading or compiling the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// gojsonschema result error types we render specially
const (
	errTypeEnum               = "enum"
	errTypeAdditionalProperty = "additional_property_not_allowed"
)

// Validate checks a parsed document against raw schema bytes and returns one
// issue per structural fault, ordered by path. An empty slice means the
// document conforms. An error is returned only when the schema cannot be
// compiled.
func Validate(schema []byte, schemaPath string, document any) ([]types.Issue, error) {
	document = jsonCompatible(document)

	// JSON has no infinities or NaN; report them where they occur instead
	// of failing inside the validator.
	if issues := nonFiniteIssues(document, "/"); len(issues) > 0 {
		return issues, nil
	}

	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	issues := make([]types.Issue, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, issueFromResult(desc))
	}
	sortIssues(issues)
	return issues, nil
}

// sortIssues fixes the order gojsonschema leaves to map iteration.
func sortIssues(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}

// nonFiniteIssues walks a jsonCompatible document in key order and returns
// one generic issue per infinite or NaN number.
func nonFiniteIssues(v any, at string) []types.Issue {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var issues []types.Issue
		for _, k := range keys {
			issues = append(issues, nonFiniteIssues(val[k], joinPointer(at, k))...)
		}
		return issues
	case []any:
		var issues []types.Issue
		for i, item := range val {
			issues = append(issues, nonFiniteIssues(item, joinPointer(at, strconv.Itoa(i)))...)
		}
		return issues
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return []types.Issue{{
				Kind:    types.KindGeneric,
				Path:    at,
				Message: fmt.Sprintf("value %v is not a finite number and cannot be checked against the schema; quote it if a string was meant", val),
				Value:   fmt.Sprint(val),
			}}
		}
	}
	return nil
}

func issueFromResult(desc gojsonschema.ResultError) types.Issue {
	location := pointer(desc.Context())
	details := desc.Details()

	switch desc.Type() {
	case errTypeEnum:
		return types.Issue{
			Kind:    types.KindFieldNotInEnum,
			Path:    location,
			Message: desc.Description(),
			Value:   formatValue(desc.Value()),
			Allowed: parseAllowed(details["allowed"]),
		}
	case errTypeAdditionalProperty:
		key := fmt.Sprint(details["property"])
		return types.Issue{
			Kind:    types.KindUndefinedKey,
			Path:    joinPointer(location, key),
			Message: desc.Description(),
			Value:   key,
		}
	default:
		return types.Issue{
			Kind:    types.KindGeneric,
			Path:    location,
			Message: desc.Description(),
			Value:   formatValue(desc.Value()),
		}
	}
}

// pointer renders a gojsonschema context as a slash separated path, "/" for the root.
func pointer(ctx *gojsonschema.JsonContext) string {
	if ctx == nil {
		return "/"
	}
	p := strings.TrimPrefix(ctx.String("/"), gojsonschema.STRING_CONTEXT_ROOT)
	if p == "" {
		return "/"
	}
	return p
}

func joinPointer(base, key string) string {
	if base == "/" {
		return "/" + key
	}
	return base + "/" + key
}

// parseAllowed splits gojsonschema's joined enum list ("\"a\", \"b\"") back into values.
func parseAllowed(raw any) []string {
	joined, ok := raw.(string)
	if !ok || joined == "" {
		return nil
	}
	parts := strings.Split(joined, ", ")
	allowed := make([]string, 0, len(parts))
	for _, part := range parts {
		if unquoted, err := strconv.Unquote(part); err == nil {
			allowed = append(allowed, unquoted)
			continue
		}
		allowed = append(allowed, part)
	}
	return allowed
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case map[string]any, []any:
		data, err := gojson.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// jsonCompatible rewrites YAML-only shapes (non-string map keys) so the
// document survives JSON marshalling inside the validator.
func jsonCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonCompatible(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		keys := make([]string, 0, len(val))
		byKey := make(map[string]any, len(val))
		for k, item := range val {
			key := fmt.Sprint(k)
			keys = append(keys, key)
			byKey[key] = item
		}
		sort.Strings(keys)
		for _, key := range keys {
			out[key] = jsonCompatible(byKey[key])
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonCompatible(item)
		}
		return out
	default:
		return v
	}
}
