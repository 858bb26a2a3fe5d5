// Package validation provides JSON Schema based structural validation
// for request bodies. Semantic rules (spam checks, allowed styles) live
// with the owning service; this layer only rejects malformed shapes.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	commonerrors "scriptforge/internal/common/errors"
)

// Schema wraps a compiled JSON schema.
type Schema struct {
	compiled *gojsonschema.Schema
}

// MustCompile compiles the schema document or panics. Schemas are static
// package-level definitions, so a compile failure is a programming error.
func MustCompile(document map[string]interface{}) *Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(document))
	if err != nil {
		panic(fmt.Sprintf("invalid schema definition: %v", err))
	}
	return &Schema{compiled: compiled}
}

// ValidateBytes checks a raw JSON document against the schema. Returns a
// VALIDATION_FAILED StandardError listing every violated constraint.
func (s *Schema) ValidateBytes(raw []byte) error {
	if !json.Valid(raw) {
		return commonerrors.NewValidationError("request body is not valid JSON")
	}

	result, err := s.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return commonerrors.NewValidationError(fmt.Sprintf("request body could not be validated: %v", err))
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		violations[i] = desc.String()
	}
	e := commonerrors.NewValidationError(strings.Join(violations, "; "))
	e.Metadata = map[string]interface{}{"violations": violations}
	return e
}

// GenerateRequestSchema validates the script generation request body.
// Field semantics beyond shape are enforced by the generation service.
var GenerateRequestSchema = MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"topic"},
	"properties": map[string]interface{}{
		"topic": map[string]interface{}{
			"type":      "string",
			"maxLength": 500,
		},
		"style": map[string]interface{}{
			"type": "string",
		},
		"duration": map[string]interface{}{
			"type": "string",
		},
		"research_depth": map[string]interface{}{
			"type": "string",
		},
		"brand_voice": map[string]interface{}{
			"type":      "string",
			"maxLength": 1000,
		},
	},
	"additionalProperties": false,
})

// RefineRequestSchema validates the script refinement request body.
var RefineRequestSchema = MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"feedback"},
	"properties": map[string]interface{}{
		"feedback": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 2000,
		},
	},
	"additionalProperties": false,
})
