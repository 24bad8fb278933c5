package catalog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// moduleSchema is the JSON Schema every module file must satisfy before
// structural validation runs. Kept deliberately shape-only: cross-field
// rules (gate config presence, node references) live in validate.go.
const moduleSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "title", "units"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "title": {"type": "string", "minLength": 1},
    "adaptiveSettings": {
      "type": "object",
      "required": ["mode"],
      "properties": {
        "mode": {"enum": ["off", "guided"]},
        "allowLearnerChoice": {"type": "boolean"},
        "preAssessmentEnabled": {"type": "boolean"}
      }
    },
    "units": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "type", "contentId", "sequence"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "type": {"type": "string", "minLength": 1},
          "contentId": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "isRequired": {"type": "boolean"},
          "sequence": {"type": "integer", "minimum": 0},
          "estimatedDuration": {"type": "integer", "minimum": 0},
          "adaptive": {
            "type": "object",
            "properties": {
              "teachesNodes": {"type": "array", "items": {"type": "string"}},
              "assessesNodes": {"type": "array", "items": {"type": "string"}},
              "isGate": {"type": "boolean"},
              "isSkippable": {"type": "boolean"},
              "gateConfig": {
                "type": "object",
                "required": ["masteryThreshold"],
                "properties": {
                  "masteryThreshold": {"type": "number", "minimum": 0, "maximum": 1},
                  "minQuestions": {"type": "integer", "minimum": 0},
                  "maxRetries": {"type": "integer", "minimum": 0},
                  "failStrategy": {"enum": ["hold"]}
                }
              }
            }
          }
        }
      }
    }
  }
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

// validateAgainstSchema checks raw module JSON against moduleSchema.
func validateAgainstSchema(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("compile module schema: %w", err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("module schema validation failed: %w", err)
	}
	return nil
}

func getCompiledSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(moduleSchema), &def); err != nil {
			compileSchemaError = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://module.json"
		if err := c.AddResource(schemaURL, def); err != nil {
			compileSchemaError = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileSchemaError = c.Compile(schemaURL)
	})
	return compiledSchema, compileSchemaError
}
