package validation

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/opencontrol-linter/internal/schemas"
	"github.com/jonathan/opencontrol-linter/internal/types"
)

// DecodeFunc parses raw document bytes into a generic value.
type DecodeFunc func(data []byte) (any, error)

// DecodeYAML parses YAML (and therefore JSON) documents with yaml.v3.
// Type errors are returned as *yaml.TypeError so each diagnostic can be kept.
func DecodeYAML(data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validator checks one document at a time against the schema its
// schema_version selects.
type Validator struct {
	locator *schemas.Locator
	decode  DecodeFunc
	logger  *zap.Logger
}

// New returns a validator using the given schema locator. A nil logger is
// replaced with a no-op logger.
func New(locator *schemas.Locator, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{
		locator: locator,
		decode:  DecodeYAML,
		logger:  logger,
	}
}

// WithDecoder returns a copy of v that parses documents with decode.
func (v *Validator) WithDecoder(decode DecodeFunc) *Validator {
	clone := *v
	clone.decode = decode
	return &clone
}

// Validate loads the file at path and returns its issues. It never fails:
// unreadable files, parse failures and missing schemas all become issues.
func (v *Validator) Validate(docType types.DocumentType, path string) []types.Issue {
	document, err := v.load(path)
	if err != nil {
		return issuesFromLoadError(path, err)
	}

	version := schemas.NormalizeVersion(declaredVersion(document))
	ref, ok := v.locator.Locate(docType, version)
	if !ok {
		v.logger.Debug("schema not found",
			zap.String("file", path),
			zap.String("type", string(docType)),
			zap.String("version", version))
		return []types.Issue{{
			Kind:       types.KindSchemaNotFound,
			Path:       path,
			Message:    fmt.Sprintf("no %s schema for version %s", docType.Singular(), version),
			Value:      version,
			SchemaPath: ref.Display(),
			Supported:  v.locator.Versions(docType),
		}}
	}

	v.logger.Debug("validating document",
		zap.String("file", path),
		zap.String("schema", ref.Display()))

	schema, err := v.locator.Load(ref)
	if err != nil {
		return []types.Issue{schemaFailure(ref, err)}
	}

	issues, err := schemas.Validate(schema, ref.Display(), document)
	if err != nil {
		return []types.Issue{schemaFailure(ref, err)}
	}
	return issues
}

func (v *Validator) load(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Cause: err}
	}

	document, err := v.decode(data)
	if err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
			return nil, &ParseError{Path: path, Messages: typeErr.Errors, Cause: err}
		}
		return nil, &ParseError{Path: path, Messages: []string{err.Error()}, Cause: err}
	}
	if document == nil {
		return nil, &ParseError{Path: path, Messages: []string{"document is empty"}}
	}
	return document, nil
}

func declaredVersion(document any) any {
	switch doc := document.(type) {
	case map[string]any:
		return doc["schema_version"]
	case map[any]any:
		return doc["schema_version"]
	default:
		return nil
	}
}

func issuesFromLoadError(path string, err error) []types.Issue {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		issues := make([]types.Issue, 0, len(parseErr.Messages))
		for _, msg := range parseErr.Messages {
			issues = append(issues, types.Issue{
				Kind:    types.KindParseError,
				Path:    path,
				Message: msg,
			})
		}
		return issues
	}

	var readErr *FileReadError
	if errors.As(err, &readErr) {
		return []types.Issue{{
			Kind:    types.KindGeneric,
			Path:    path,
			Message: fmt.Sprintf("could not read file: %v", readErr.Cause),
		}}
	}

	return []types.Issue{{Kind: types.KindGeneric, Path: path, Message: err.Error()}}
}

func schemaFailure(ref schemas.SchemaRef, err error) types.Issue {
	return types.Issue{
		Kind:       types.KindGeneric,
		Path:       ref.Display(),
		Message:    err.Error(),
		SchemaPath: ref.Display(),
	}
}
