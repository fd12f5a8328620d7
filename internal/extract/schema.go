package extract

// Stage payload schemas (JSON-Schema subset as generic maps). Model output is
// sanitized first, then validated strictly; a violation fails the stage
// rather than triggering a retry.

func roleEnum() []string {
	return []string{
		string(RoleTotalBill),
		string(RolePaid),
		string(RoleDue),
		string(RoleDiscount),
		string(RoleUnknown),
	}
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}

func normalizationSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"normalized_amounts"},
		"properties": map[string]any{
			"normalized_amounts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "number"},
			},
			"normalization_confidence": confidenceProp(),
		},
	}
}

func classificationSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"amounts"},
		"properties": map[string]any{
			"amounts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"type", "value"},
					"properties": map[string]any{
						"type":  map[string]any{"type": "string", "enum": roleEnum()},
						"value": map[string]any{"type": "number"},
					},
				},
			},
			"confidence": confidenceProp(),
		},
	}
}

func finalSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"amounts"},
		"properties": map[string]any{
			"currency": map[string]any{"type": "string", "minLength": 1},
			"amounts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"type", "value"},
					"properties": map[string]any{
						"type":   map[string]any{"type": "string", "enum": roleEnum()},
						"value":  map[string]any{"type": "number"},
						"source": map[string]any{"type": "string"},
					},
				},
			},
			"summary": map[string]any{"type": "string"},
			"status":  map[string]any{"type": "string"},
		},
	}
}
