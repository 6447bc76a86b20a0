package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/flowmatic/flowmatic/pkg/flowmatic/domain"
)

// workflowSchemaJSON validates a workflow configuration document:
// one or more triggers and an ordered list of actions. Action config
// is left open since handlers interpret their own keys.
const workflowSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowmatic.dev/schemas/workflow.json",
  "type": "object",
  "required": ["triggers", "actions"],
  "properties": {
    "triggers": {
      "type": "array",
      "minItems": 1,
      "items": { "$ref": "#/$defs/trigger" }
    },
    "actions": {
      "type": "array",
      "items": { "$ref": "#/$defs/action" }
    }
  },
  "additionalProperties": false,
  "$defs": {
    "trigger": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {
          "type": "string",
          "minLength": 1
        },
        "config": { "type": "object" }
      },
      "additionalProperties": false
    },
    "action": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {
          "type": "string",
          "minLength": 1
        },
        "config": { "type": "object" }
      },
      "additionalProperties": false
    }
  }
}`

// Validator checks workflow configurations against the workflow JSON
// Schema before they are persisted. Safe for concurrent use.
type Validator struct {
	workflow *jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(workflowSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal workflow schema: %w", err)
	}
	if err := c.AddResource("https://flowmatic.dev/schemas/workflow.json", doc); err != nil {
		return nil, fmt.Errorf("add workflow schema resource: %w", err)
	}
	compiled, err := c.Compile("https://flowmatic.dev/schemas/workflow.json")
	if err != nil {
		return nil, fmt.Errorf("compile workflow schema: %w", err)
	}
	return &Validator{workflow: compiled}, nil
}

// ValidateConfiguration validates a workflow configuration. The returned
// error lists every schema violation with its document location.
func (v *Validator) ValidateConfiguration(cfg *domain.Configuration) error {
	if cfg == nil {
		return fmt.Errorf("workflow configuration is nil")
	}

	doc, err := toJSONValue(cfg)
	if err != nil {
		return fmt.Errorf("serialize workflow configuration: %w", err)
	}

	if err := v.workflow.Validate(doc); err != nil {
		return toValidationError(err)
	}
	return nil
}

// toJSONValue round-trips a value through JSON so numbers arrive as
// json.Number, which the jsonschema library requires.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

func toValidationError(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	violations := collectViolations(verr)
	if len(violations) == 0 {
		return verr
	}
	return fmt.Errorf("invalid workflow configuration: %s", strings.Join(violations, "; "))
}

// collectViolations walks the ValidationError tree and collects leaf
// messages with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}
