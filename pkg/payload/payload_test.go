// SPDX-License-Identifier: MPL-2.0

package payload

import (
	"errors"
	"slices"
	"testing"
)

func TestPayload_AddFieldsSortedOrder(t *testing.T) {
	t.Parallel()

	p := New()
	if err := p.AddField("sources", NewPrimitiveField([]string{"*Test.java"})); err != nil {
		t.Fatalf("AddField() error = %v", err)
	}
	err := p.AddFields(map[string]Field{
		"extra_jvm_options": NewPrimitiveField([]string{"-Xmx1g"}),
		"extra_env_vars":    NewPrimitiveField([][2]string{{"A", "1"}}),
	})
	if err != nil {
		t.Fatalf("AddFields() error = %v", err)
	}

	want := []string{"sources", "extra_env_vars", "extra_jvm_options"}
	if got := p.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
}

func TestPayload_DuplicateField(t *testing.T) {
	t.Parallel()

	p := New()
	if err := p.AddField("a", NewPrimitiveField(1)); err != nil {
		t.Fatalf("AddField() error = %v", err)
	}

	err := p.AddFields(map[string]Field{
		"a": NewPrimitiveField(2),
		"b": NewPrimitiveField(3),
	})
	if !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("AddFields() error = %v, want ErrDuplicateField", err)
	}
	if p.Has("b") {
		t.Error("AddFields() added fields despite a collision")
	}

	var dupErr *DuplicateFieldError
	if !errors.As(err, &dupErr) || dupErr.Name != "a" {
		t.Errorf("error should be *DuplicateFieldError for %q, got %v", "a", err)
	}
}

func TestPayload_Frozen(t *testing.T) {
	t.Parallel()

	p := New()
	p.Freeze()
	if !p.Frozen() {
		t.Fatal("Frozen() = false after Freeze()")
	}
	if err := p.AddField("a", NewPrimitiveField(1)); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddField() on frozen payload error = %v, want ErrFrozen", err)
	}
}

func TestPayload_FingerprintIndependentOfOrder(t *testing.T) {
	t.Parallel()

	a := New()
	_ = a.AddField("x", NewPrimitiveField("1"))
	_ = a.AddField("y", NewPrimitiveField([]string{"2"}))

	b := New()
	_ = b.AddField("y", NewPrimitiveField([]string{"2"}))
	_ = b.AddField("x", NewPrimitiveField("1"))

	fpA, err := a.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	fpB, err := b.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if fpA != fpB {
		t.Errorf("fingerprints differ: %s vs %s", fpA, fpB)
	}

	c := New()
	_ = c.AddField("x", NewPrimitiveField("1"))
	_ = c.AddField("y", NewPrimitiveField([]string{"3"}))
	fpC, err := c.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	if fpA == fpC {
		t.Error("payloads with different values produced the same fingerprint")
	}
}

func TestPayload_FingerprintOfUnknownField(t *testing.T) {
	t.Parallel()

	p := New()
	if _, err := p.FingerprintOf("missing"); err == nil {
		t.Error("FingerprintOf() with unknown field should fail")
	}
}

func TestPayload_All(t *testing.T) {
	t.Parallel()

	p := New()
	_ = p.AddField("first", NewPrimitiveField(1))
	_ = p.AddField("second", NewPrimitiveField(2))

	var names []string
	for name, field := range p.All() {
		names = append(names, name)
		if field == nil {
			t.Errorf("field %q is nil", name)
		}
	}
	if !slices.Equal(names, []string{"first", "second"}) {
		t.Errorf("All() visited %v", names)
	}

	for name := range p.All() {
		if name != "first" {
			t.Errorf("early break visited %q", name)
		}
		break
	}
}
