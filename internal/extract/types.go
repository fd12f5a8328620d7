// Package extract implements the three-stage model-driven transformation of
// OCR lines into classified monetary amounts: normalization, classification,
// and finalization.
package extract

import "strings"

// Role is the financial category assigned to an amount.
type Role string

const (
	RoleTotalBill Role = "total_bill"
	RolePaid      Role = "paid"
	RoleDue       Role = "due"
	RoleDiscount  Role = "discount"
	RoleUnknown   Role = "unknown"
)

var knownRoles = map[Role]struct{}{
	RoleTotalBill: {},
	RolePaid:      {},
	RoleDue:       {},
	RoleDiscount:  {},
	RoleUnknown:   {},
}

// CanonicalRole maps a model-supplied label onto the closed role set.
// Unrecognized labels become RoleUnknown; they are never dropped and never
// pass through as new labels.
func CanonicalRole(label string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(label)))
	if _, ok := knownRoles[r]; ok {
		return r
	}
	return RoleUnknown
}

// Normalization is stage 1 output: OCR-corrected numeric values. Every
// element is finite; the list may be empty.
type Normalization struct {
	NormalizedAmounts []float64 `json:"normalized_amounts"`
	Confidence        float64   `json:"normalization_confidence"`
}

// ClassifiedAmount pairs a normalized value with its financial role.
type ClassifiedAmount struct {
	Type  Role    `json:"type"`
	Value float64 `json:"value"`
}

// Classification is stage 2 output.
type Classification struct {
	Amounts    []ClassifiedAmount `json:"amounts"`
	Confidence float64            `json:"confidence"`
}

// SourcedAmount is a classified amount with the source text that justifies it.
type SourcedAmount struct {
	Type   Role    `json:"type"`
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

// Final is stage 3 output.
type Final struct {
	Currency string          `json:"currency"`
	Amounts  []SourcedAmount `json:"amounts"`
	Summary  string          `json:"summary"`
	Status   string          `json:"status"`
}

// Result aggregates the three stage payloads for one request. A zero payload
// means the stage failed or never ran; Err carries the first failure
// encountered and is empty on clean runs. Results live for one request only.
type Result struct {
	Normalization  Normalization
	Classification Classification
	Final          Final
	Err            string
}
