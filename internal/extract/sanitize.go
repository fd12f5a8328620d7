package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sanitize passes bridge model drift to the strict stage schemas: synonym
// keys are renamed, numbers arriving as strings are coerced, out-of-set role
// labels are remapped to "unknown", and unknown keys are removed so
// additionalProperties=false can hold.

func sanitizeNormalization(raw []byte) ([]byte, []string, error) {
	m, dropped, err := decodeObject(raw)
	if err != nil {
		return nil, nil, err
	}

	rename(m, "confidence", "normalization_confidence", &dropped)
	rename(m, "amounts", "normalized_amounts", &dropped)

	// A missing amounts key is left missing so required-field validation
	// fails the stage instead of quietly passing an injected empty list.
	if vs, ok := m["normalized_amounts"].([]any); ok {
		amounts := make([]float64, 0, len(vs))
		for _, v := range vs {
			f, ok := asNumber(v)
			if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
				dropped = append(dropped, fmt.Sprintf("normalized_amounts[%v]", v))
				continue
			}
			amounts = append(amounts, f)
		}
		m["normalized_amounts"] = amounts
	}

	coerceConfidence(m, "normalization_confidence", &dropped)
	keepKeys(m, &dropped, "normalized_amounts", "normalization_confidence")

	out, err := json.Marshal(m)
	return out, dropped, err
}

func sanitizeClassification(raw []byte) ([]byte, []string, error) {
	m, dropped, err := decodeObject(raw)
	if err != nil {
		return nil, nil, err
	}

	rename(m, "classified_amounts", "amounts", &dropped)
	if _, ok := m["amounts"]; ok {
		m["amounts"] = sanitizeAmountList(m["amounts"], false, &dropped)
	}
	coerceConfidence(m, "confidence", &dropped)
	keepKeys(m, &dropped, "amounts", "confidence")

	out, err := json.Marshal(m)
	return out, dropped, err
}

func sanitizeFinal(raw []byte) ([]byte, []string, error) {
	m, dropped, err := decodeObject(raw)
	if err != nil {
		return nil, nil, err
	}

	if v, ok := m["currency"].(string); ok {
		cur := strings.ToUpper(strings.TrimSpace(v))
		if cur == "" {
			delete(m, "currency")
			dropped = append(dropped, "currency(empty)")
		} else {
			m["currency"] = cur
		}
	}

	if _, ok := m["amounts"]; ok {
		m["amounts"] = sanitizeAmountList(m["amounts"], true, &dropped)
	}

	// Some models return the summary as a list of sentences.
	switch s := m["summary"].(type) {
	case string:
		m["summary"] = strings.TrimSpace(s)
	case []any:
		parts := make([]string, 0, len(s))
		for _, p := range s {
			if t, ok := p.(string); ok {
				parts = append(parts, strings.TrimSpace(t))
			}
		}
		m["summary"] = strings.Join(parts, " ")
		dropped = append(dropped, "summary(list)")
	case nil:
	default:
		delete(m, "summary")
		dropped = append(dropped, "summary(type)")
	}

	if v, ok := m["status"].(string); ok {
		m["status"] = strings.TrimSpace(v)
	}

	keepKeys(m, &dropped, "currency", "amounts", "summary", "status")

	out, err := json.Marshal(m)
	return out, dropped, err
}

// sanitizeAmountList normalizes a list of {type, value[, source]} entries.
// Role labels outside the closed set are remapped to "unknown". Entries
// without a usable numeric value cannot be represented and are dropped.
func sanitizeAmountList(v any, withSource bool, dropped *[]string) []map[string]any {
	out := make([]map[string]any, 0)
	items, ok := v.([]any)
	if !ok {
		if v != nil {
			*dropped = append(*dropped, "amounts(type)")
		}
		return out
	}
	for i, it := range items {
		entry, ok := it.(map[string]any)
		if !ok {
			*dropped = append(*dropped, fmt.Sprintf("amounts[%d](type)", i))
			continue
		}
		label, _ := entry["type"].(string)
		value, ok := asNumber(entry["value"])
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			*dropped = append(*dropped, fmt.Sprintf("amounts[%d](value)", i))
			continue
		}
		clean := map[string]any{
			"type":  string(CanonicalRole(label)),
			"value": value,
		}
		if withSource {
			if src, ok := entry["source"].(string); ok && strings.TrimSpace(src) != "" {
				clean["source"] = strings.TrimSpace(src)
			}
		}
		out = append(out, clean)
	}
	return out
}

func decodeObject(raw []byte) (map[string]any, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("decode payload: %w", err)
	}
	return m, make([]string, 0, 4), nil
}

func rename(m map[string]any, from, to string, dropped *[]string) {
	if v, ok := m[from]; ok {
		if _, exists := m[to]; !exists {
			m[to] = v
		}
		delete(m, from)
		*dropped = append(*dropped, from+"->"+to)
	}
}

func coerceConfidence(m map[string]any, key string, dropped *[]string) {
	v, ok := m[key]
	if !ok {
		return
	}
	f, ok := asNumber(v)
	if !ok || f < 0 || f > 1 {
		delete(m, key)
		*dropped = append(*dropped, key+"(invalid)")
		return
	}
	m[key] = f
}

func keepKeys(m map[string]any, dropped *[]string, allowed ...string) {
	set := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		set[k] = struct{}{}
	}
	for k := range m {
		if _, ok := set[k]; !ok {
			delete(m, k)
			*dropped = append(*dropped, k+"(unknown)")
		}
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
