package extmodel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/common"
)

// BuildCandidateSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map constraining an external model's candidate list. Used by
// adapters to validate raw model payloads before decoding.
func BuildCandidateSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"type": map[string]any{
					"type": "string",
					"enum": constants.AsStringSlice(),
				},
				"name": map[string]any{"type": "string", "minLength": 1},
				"dimensions": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"width":    dimProp(),
						"height":   dimProp(),
						"length":   dimProp(),
						"diameter": dimProp(),
					},
				},
			},
			"required": []string{"type", "name"},
		},
	}
}

func dimProp() map[string]any {
	return map[string]any{"type": "number", "exclusiveMinimum": 0.0}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// DecodeCandidates validates a raw model payload against the candidate
// schema and decodes it. Schema failures satisfy errors.Is against
// common.ErrValidation.
func DecodeCandidates(raw []byte) ([]Candidate, error) {
	if err := ValidateJSONAgainstSchema(BuildCandidateSchema(), raw); err != nil {
		return nil, common.NewAppError("MODEL_RESPONSE_INVALID", err.Error(), common.ErrValidation)
	}
	var out []Candidate
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	return out, nil
}
