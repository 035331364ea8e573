// Package tools exposes the profile-store actions as schema-validated
// tools. Store and validation failures never escape as errors: they are
// encoded as {"success":false,...} results so the reasoning step always
// gets a structured outcome to narrate.
package tools

import "encoding/json"

func unmarshalInput(input string, v any) error {
	return json.Unmarshal([]byte(input), v)
}

func marshalResult(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// profileSchema describes one profile object in tool inputs.
func profileSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"first_name": map[string]any{
				"type":        "string",
				"description": "Employee's first name",
			},
			"last_name": map[string]any{
				"type":        "string",
				"description": "Employee's last name",
			},
			"email_address": map[string]any{
				"type":        "string",
				"description": "Employee's unique email address",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "All 34 CliftonStrengths themes in ranked order, strongest first",
			},
		},
		"required":             []string{"first_name", "last_name", "email_address", "strengths"},
		"additionalProperties": false,
	}
}
