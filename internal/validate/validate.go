// Package validate checks API request bodies against JSON schemas before
// they reach the store. Structural rules live here; referential rules (does
// the requirement exist, does it belong to this project) stay in the
// handlers.
package validate

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var projectSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name"},
	"properties": map[string]interface{}{
		"name":        map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 200},
		"description": map[string]interface{}{"type": "string", "maxLength": 2000},
		"competitors": map[string]interface{}{
			"type":     "array",
			"maxItems": 10,
			"items":    map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 100},
		},
	},
}

var customerRequirementSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"description", "importance"},
	"properties": map[string]interface{}{
		"description": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 500},
		"importance":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
		"ratings": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
		},
	},
}

var technicalRequirementSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"description", "difficulty"},
	"properties": map[string]interface{}{
		"description": map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 500},
		"unit":        map[string]interface{}{"type": "string", "maxLength": 50},
		"target":      map[string]interface{}{"type": "string", "maxLength": 100},
		"difficulty":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 5},
	},
}

var relationshipSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"customer_requirement_id", "technical_requirement_id", "strength"},
	"properties": map[string]interface{}{
		"customer_requirement_id":  map[string]interface{}{"type": "string", "format": "uuid"},
		"technical_requirement_id": map[string]interface{}{"type": "string", "format": "uuid"},
		"strength":                 map[string]interface{}{"enum": []interface{}{0, 1, 3, 9}},
	},
}

var correlationSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"requirement1_id", "requirement2_id", "correlation"},
	"properties": map[string]interface{}{
		"requirement1_id": map[string]interface{}{"type": "string", "format": "uuid"},
		"requirement2_id": map[string]interface{}{"type": "string", "format": "uuid"},
		"correlation":     map[string]interface{}{"enum": []interface{}{-2, -1, 0, 1, 2}},
	},
}

func Project(body []byte) error             { return validateBytes(projectSchema, body) }
func CustomerRequirement(body []byte) error { return validateBytes(customerRequirementSchema, body) }
func TechnicalRequirement(body []byte) error {
	return validateBytes(technicalRequirementSchema, body)
}
func Relationship(body []byte) error { return validateBytes(relationshipSchema, body) }
func Correlation(body []byte) error  { return validateBytes(correlationSchema, body) }

func validateBytes(schema map[string]interface{}, body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	return nil
}
