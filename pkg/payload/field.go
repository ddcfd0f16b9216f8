// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type (
	// Field is a fingerprint-aware payload entry.
	Field interface {
		// Value returns the wrapped value. Callers must not mutate it.
		Value() any
		// Fingerprint returns a stable digest of the value.
		Fingerprint() (string, error)
	}

	// PrimitiveField wraps a value whose fingerprint is derived from its
	// canonical JSON encoding. The wrapped value is expected to be immutable
	// (callers hand over copies).
	PrimitiveField struct {
		value any
	}
)

// NewPrimitiveField wraps value in a PrimitiveField.
func NewPrimitiveField(value any) *PrimitiveField {
	return &PrimitiveField{value: value}
}

// Value returns the wrapped value.
func (f *PrimitiveField) Value() any { return f.value }

// Fingerprint returns the hex sha256 of the JSON encoding of the value.
func (f *PrimitiveField) Fingerprint() (string, error) {
	data, err := json.Marshal(f.value)
	if err != nil {
		return "", fmt.Errorf("fingerprint primitive field: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
