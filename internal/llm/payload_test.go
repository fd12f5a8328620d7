package llm

import "testing"

func TestExtractPayload(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			in:   `{"normalized_amounts": [1200]}`,
			want: `{"normalized_amounts": [1200]}`,
			ok:   true,
		},
		{
			name: "surrounded by prose",
			in:   "Sure! Here is the result:\n{\"amounts\": []}\nLet me know if you need more.",
			want: `{"amounts": []}`,
			ok:   true,
		},
		{
			name: "markdown fenced",
			in:   "```json\n{\"confidence\": 0.8}\n```",
			want: `{"confidence": 0.8}`,
			ok:   true,
		},
		{
			name: "nested objects",
			in:   `prefix {"a": {"b": 1}, "c": 2} suffix`,
			want: `{"a": {"b": 1}, "c": 2}`,
			ok:   true,
		},
		{
			name: "brace inside string value",
			in:   `{"source": "text: 'Total} 1200'", "value": 1200}`,
			want: `{"source": "text: 'Total} 1200'", "value": 1200}`,
			ok:   true,
		},
		{
			name: "stray open brace before payload",
			in:   `note { without close` + "\n" + `{"value": 1}`,
			want: `{"value": 1}`,
			ok:   true,
		},
		{
			name: "no closing brace",
			in:   `{"value": 1`,
			ok:   false,
		},
		{
			name: "braces reversed",
			in:   `} nothing here {`,
			ok:   false,
		},
		{
			name: "no braces at all",
			in:   "the model refused to answer",
			ok:   false,
		},
		{
			name: "empty input",
			in:   "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractPayload(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %t, want %t", ok, tc.ok)
			}
			if ok && string(got) != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// The same payload must come back no matter how much prose surrounds it.
func TestExtractPayloadIdempotentOnWellFormedInput(t *testing.T) {
	payload := `{"normalized_amounts": [1200, 1000], "normalization_confidence": 0.82}`
	wrappers := []string{
		payload,
		"short note " + payload,
		"```json\n" + payload + "\n```",
		"a very long preamble that goes on and on about the task at hand " + payload + " and a long trailing explanation of what was found in the document",
	}
	for _, in := range wrappers {
		got, ok := ExtractPayload(in)
		if !ok || string(got) != payload {
			t.Fatalf("ExtractPayload(%q) = (%q, %t), want payload back", in, got, ok)
		}
	}
}

func TestValidateAgainstSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []string{"value"},
		"properties": map[string]any{
			"value": map[string]any{"type": "number"},
		},
	}
	if err := ValidateAgainstSchema(schema, []byte(`{"value": 12}`)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if err := ValidateAgainstSchema(schema, []byte(`{"value": "twelve"}`)); err == nil {
		t.Fatal("expected validation error for string value")
	}
	if err := ValidateAgainstSchema(schema, []byte(`{}`)); err == nil {
		t.Fatal("expected validation error for missing required field")
	}
}
