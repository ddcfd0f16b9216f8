// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
)

var (
	// ErrDuplicateField is returned when a field name is registered twice.
	ErrDuplicateField = errors.New("duplicate payload field")
	// ErrFrozen is returned when a frozen payload is mutated.
	ErrFrozen = errors.New("payload is frozen")
)

type (
	// DuplicateFieldError is returned by AddField when the name is already taken.
	// It wraps ErrDuplicateField for errors.Is() compatibility.
	DuplicateFieldError struct {
		Name string
	}

	namedField struct {
		name  string
		field Field
	}

	// Payload is an insertion-ordered set of named fields.
	// The zero value is not usable; create payloads with New.
	Payload struct {
		fields []namedField
		index  map[string]int
		frozen bool
	}
)

// Error implements the error interface for DuplicateFieldError.
func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("payload field %q is already registered", e.Name)
}

// Unwrap returns ErrDuplicateField for errors.Is() compatibility.
func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicateField }

// New creates an empty payload.
func New() *Payload {
	return &Payload{index: make(map[string]int)}
}

// AddField registers a single field.
func (p *Payload) AddField(name string, field Field) error {
	if p.frozen {
		return fmt.Errorf("add field %q: %w", name, ErrFrozen)
	}
	if _, exists := p.index[name]; exists {
		return &DuplicateFieldError{Name: name}
	}
	p.index[name] = len(p.fields)
	p.fields = append(p.fields, namedField{name: name, field: field})
	return nil
}

// AddFields registers every entry of fields. Entries are added in sorted name
// order so that the resulting payload does not depend on map iteration order.
// Nothing is added when any name collides.
func (p *Payload) AddFields(fields map[string]Field) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, exists := p.index[name]; exists {
			return &DuplicateFieldError{Name: name}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.AddField(name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

// Freeze makes the payload read-only.
func (p *Payload) Freeze() { p.frozen = true }

// Frozen reports whether Freeze has been called.
func (p *Payload) Frozen() bool { return p.frozen }

// Get returns the field registered under name.
func (p *Payload) Get(name string) (Field, bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.fields[i].field, true
}

// Has reports whether a field is registered under name.
func (p *Payload) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Len returns the number of registered fields.
func (p *Payload) Len() int { return len(p.fields) }

// Names returns the field names in insertion order.
func (p *Payload) Names() []string {
	names := make([]string, len(p.fields))
	for i, nf := range p.fields {
		names[i] = nf.name
	}
	return names
}

// All iterates the fields in insertion order.
func (p *Payload) All() iter.Seq2[string, Field] {
	return func(yield func(string, Field) bool) {
		for _, nf := range p.fields {
			if !yield(nf.name, nf.field) {
				return
			}
		}
	}
}

// Fingerprint hashes every field's name and fingerprint. Fields are visited in
// sorted name order and each component is length-prefixed, so two payloads with
// the same field set hash identically regardless of registration order.
func (p *Payload) Fingerprint() (string, error) {
	return p.FingerprintOf(p.Names()...)
}

// FingerprintOf hashes only the named fields. Unknown names are an error.
func (p *Payload) FingerprintOf(names ...string) (string, error) {
	sorted := slices.Clone(names)
	sort.Strings(sorted)

	h := sha256.New()
	writeField := func(data []byte) {
		var length [8]byte
		binary.BigEndian.PutUint64(length[:], uint64(len(data)))
		h.Write(length[:])
		h.Write(data)
	}

	for _, name := range sorted {
		field, ok := p.Get(name)
		if !ok {
			return "", fmt.Errorf("fingerprint: unknown payload field %q", name)
		}
		fp, err := field.Fingerprint()
		if err != nil {
			return "", fmt.Errorf("fingerprint %q: %w", name, err)
		}
		writeField([]byte(name))
		writeField([]byte(fp))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
