package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/windham/commodity-api/pkg/apperrors"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Schema names, matching the files under schemas/.
const (
	SchemaCommodityNew      = "commodityNew"
	SchemaCommodityUpdate   = "commodityUpdate"
	SchemaStudyNew          = "studyNew"
	SchemaStudyUpdate       = "studyUpdate"
	SchemaStudyCommodityNew = "studyCommodityNew"
)

// SchemaValidator validates request bodies against the embedded JSON schemas.
type SchemaValidator struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles every embedded schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		file := path.Join("schemas", entry.Name())
		data, err := schemaFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", file, err)
		}
		if err := compiler.AddResource(entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", file, err)
		}
		names = append(names, entry.Name())
	}

	v := &SchemaValidator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		v.schemas[strings.TrimSuffix(name, ".json")] = schema
	}
	return v, nil
}

// Validate checks body against the named schema. Violations are returned
// as an apperrors.ErrBadRequest listing every failure.
func (v *SchemaValidator) Validate(name string, body []byte) error {
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperrors.BadRequestf("Invalid JSON body")
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation: %w", err)
	}
	return apperrors.BadRequestf("%s", strings.Join(validationMessages(ve), "; "))
}

// validationMessages flattens a validation error tree into its leaf messages.
func validationMessages(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		location := ve.InstanceLocation
		if location == "" {
			location = "instance"
		} else {
			location = "instance" + strings.ReplaceAll(location, "/", ".")
		}
		return []string{location + " " + ve.Message}
	}

	var messages []string
	for _, cause := range ve.Causes {
		messages = append(messages, validationMessages(cause)...)
	}
	return messages
}

// decodeValidated reads the request body, validates it against schema and
// unmarshals it into dst.
func (v *SchemaValidator) decodeValidated(r *http.Request, schema string, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return apperrors.BadRequestf("Failed to read request body")
	}
	if len(body) > maxBodyBytes {
		return apperrors.BadRequestf("Request body too large")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.BadRequestf("No data")
	}

	if err := v.Validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestf("Invalid request body")
	}
	return nil
}
