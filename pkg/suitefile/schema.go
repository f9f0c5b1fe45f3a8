package suitefile

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/viscouspot/maestro-flowgen/pkg/core"
)

const schemaURL = "https://flowgen.viscouspot.com/schemas/suite.json"

// suiteSchemaJSON describes a suite definition document.
const suiteSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowgen.viscouspot.com/schemas/suite.json",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {
      "type": "string",
      "minLength": 1,
      "pattern": "^[^/]"
    },
    "output": {
      "type": "string",
      "minLength": 1,
      "pattern": "^[^/]"
    },
    "when": {
      "type": "string",
      "minLength": 1
    },
    "carry": {
      "type": "string",
      "enum": ["replace", "cumulative"]
    },
    "beforeAll": { "$ref": "#/$defs/steps" },
    "beforeEach": {
      "type": "array",
      "items": { "$ref": "#/$defs/steps" }
    },
    "groups": {
      "type": "array",
      "items": { "$ref": "#/$defs/group" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "step": {
      "type": "string",
      "minLength": 1
    },
    "steps": {
      "type": "array",
      "items": { "$ref": "#/$defs/step" }
    },
    "group": {
      "type": "object",
      "required": ["name", "stages"],
      "properties": {
        "name": { "type": "string", "minLength": 1 },
        "stages": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/stage" }
        }
      },
      "additionalProperties": false
    },
    "stage": {
      "type": "object",
      "required": ["variants"],
      "properties": {
        "variants": {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/variant" }
        }
      },
      "additionalProperties": false
    },
    "variant": {
      "oneOf": [
        {
          "type": "array",
          "minItems": 1,
          "items": { "$ref": "#/$defs/step" }
        },
        {
          "type": "object",
          "required": ["steps"],
          "properties": {
            "steps": {
              "type": "array",
              "minItems": 1,
              "items": { "$ref": "#/$defs/step" }
            },
            "accepted": { "type": "boolean" }
          },
          "additionalProperties": false
        }
      ]
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// suiteSchema compiles the embedded schema once.
func suiteSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()

		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(suiteSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal suite schema: %w", err)
			return
		}
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add suite schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// validateDocument checks a decoded YAML document against the suite schema.
func validateDocument(raw interface{}, source string) error {
	sch, err := suiteSchema()
	if err != nil {
		return err
	}

	doc, err := toJSONValue(raw)
	if err != nil {
		return core.ErrMalformedSpec.WithMessagef("%s: not representable as JSON", source).WithCause(err)
	}

	if err := sch.Validate(doc); err != nil {
		return schemaError(source, err)
	}
	return nil
}

// toJSONValue round-trips a value through JSON so numbers become
// json.Number, as the schema library expects.
func toJSONValue(v interface{}) (interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

func schemaError(source string, err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return core.ErrMalformedSpec.WithMessagef("%s: %v", source, err)
	}

	violations := collectViolations(verr)
	details := map[string]interface{}{"file": source, "violations": violations}
	switch len(violations) {
	case 0:
		return core.ErrMalformedSpec.WithMessagef("%s: %v", source, verr).WithDetails(details)
	case 1:
		return core.ErrMalformedSpec.WithMessagef("%s: %s", source, violations[0]).WithDetails(details)
	default:
		return core.ErrMalformedSpec.
			WithMessagef("%s: %d schema violations, first: %s", source, len(violations), violations[0]).
			WithDetails(details)
	}
}

var printer = message.NewPrinter(language.English)

// collectViolations walks a ValidationError tree and returns leaf messages
// prefixed with their instance location.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.ErrorKind.LocalizedString(printer))}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
