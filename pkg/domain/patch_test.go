package domain

import "testing"

func TestFieldTriState(t *testing.T) {
	var unchanged Field[string]
	if unchanged.Defined() || unchanged.IsSet() || unchanged.IsClear() {
		t.Fatalf("zero field should be undefined")
	}

	set := Set("hearing prep")
	if !set.Defined() || !set.IsSet() || set.IsClear() {
		t.Fatalf("set field misreports state")
	}
	if v, ok := set.Value(); !ok || v != "hearing prep" {
		t.Fatalf("unexpected value %q ok=%v", v, ok)
	}

	cleared := Clear[string]()
	if !cleared.Defined() || cleared.IsSet() || !cleared.IsClear() {
		t.Fatalf("clear field misreports state")
	}
	if _, ok := cleared.Value(); ok {
		t.Fatalf("clear field should not yield a value")
	}
}

func TestFieldApply(t *testing.T) {
	target := "2026-03-01"

	var unchanged Field[string]
	unchanged.Apply(&target)
	if target != "2026-03-01" {
		t.Fatalf("undefined field must not touch target, got %q", target)
	}

	Set("2026-04-15").Apply(&target)
	if target != "2026-04-15" {
		t.Fatalf("set field not applied, got %q", target)
	}

	Clear[string]().Apply(&target)
	if target != "" {
		t.Fatalf("clear field must zero the target, got %q", target)
	}
}

func TestFieldApplyPointer(t *testing.T) {
	ref := &ExternalDocRef{URL: "https://docs.example.com/1", Kind: ExternalDoc}
	var target *ExternalDocRef

	Set(ref).Apply(&target)
	if target == nil || target.URL != ref.URL {
		t.Fatalf("pointer set not applied")
	}

	Clear[*ExternalDocRef]().Apply(&target)
	if target != nil {
		t.Fatalf("pointer clear must nil the target")
	}
}
