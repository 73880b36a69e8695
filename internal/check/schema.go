package check

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultResponseSchema is the shape the model is asked to produce. The same
// schema is handed to providers that support constrained JSON output and
// compiled locally to spot non-conforming replies.
func resultResponseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"required": []any{
			"status",
			"evidence",
			"reasoning",
			"confidence",
		},
		"properties": map[string]any{
			"status": map[string]any{
				"type": "string",
				"enum": []any{"pass", "fail"},
			},
			"evidence": map[string]any{
				"type": "string",
			},
			"reasoning": map[string]any{
				"type": "string",
			},
			"confidence": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"additionalProperties": false,
	}
}

func compileResultSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(resultResponseSchema())
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rule_result.json", strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile("rule_result.json")
}

// conformsToSchema reports whether a raw model reply matches the requested
// shape exactly. Used for logging only; normalization stays lenient.
func conformsToSchema(schema *jsonschema.Schema, raw string) error {
	if schema == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
