package validation

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// Cold start payloads arrive from untrusted clients, so they are checked
// twice: the raw JSON against a schema before binding, then the bound
// struct against its validate tags.

const coldStartRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"ratings": {
			"type": "array",
			"maxItems": 100,
			"items": {
				"type": "object",
				"properties": {
					"movie_id": {"type": "integer", "minimum": 1},
					"rating": {"type": "number", "minimum": 0.5, "maximum": 5}
				},
				"required": ["movie_id", "rating"],
				"additionalProperties": false
			}
		},
		"count": {"type": "integer", "minimum": 1, "maximum": 100}
	},
	"required": ["count"],
	"additionalProperties": false
}`

// SchemaValidator handles JSON schema and struct tag validation for API
// requests.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
	structs *validator.Validate
}

func NewSchemaValidator() (*SchemaValidator, error) {
	sv := &SchemaValidator{
		schemas: make(map[string]*gojsonschema.Schema),
		structs: validator.New(),
	}

	sources := map[string]string{
		"cold-start-request": coldStartRequestSchema,
	}
	for name, source := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		sv.schemas[name] = schema
	}

	return sv, nil
}

// ValidateColdStartRequest validates a raw cold start payload.
func (sv *SchemaValidator) ValidateColdStartRequest(data interface{}) *ValidationResult {
	return sv.validate("cold-start-request", data)
}

// ValidateStruct checks a bound request struct against its validate tags.
func (sv *SchemaValidator) ValidateStruct(v interface{}) *ValidationResult {
	err := sv.structs.Struct(v)
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	result := &ValidationResult{Valid: false}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "request",
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return result
	}
	for _, fe := range invalid {
		result.Errors = append(result.Errors, ValidationError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			Code:    "VALIDATION_ERROR",
			Value:   fe.Value(),
		})
	}
	return result
}

func (sv *SchemaValidator) validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
				Code:    "SCHEMA_NOT_FOUND",
			}},
		}
	}

	var documentLoader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		documentLoader = gojsonschema.NewStringLoader(v)
	case []byte:
		documentLoader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "data",
					Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
					Code:    "JSON_MARSHAL_ERROR",
				}},
			}
		}
		documentLoader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "validation",
				Message: fmt.Sprintf("Validation error: %v", err),
				Code:    "VALIDATION_ERROR",
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0),
	}
	for _, verr := range result.Errors() {
		validationResult.Errors = append(validationResult.Errors, ValidationError{
			Field:   verr.Field(),
			Message: verr.Description(),
			Code:    "VALIDATION_ERROR",
			Value:   verr.Value(),
		})
	}
	return validationResult
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// ToAPIError converts validation errors to the API error envelope.
func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": map[string]interface{}{
				"validationErrors": vr.Errors,
				"fieldErrors":      fieldErrors,
			},
		},
	}
}
