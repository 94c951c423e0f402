package snapshot

import (
	"testing"
)

func TestCapture_BasicFunctionality(t *testing.T) {
	environ := []string{
		"PATH=/bin:/usr/bin",
		"HOME=/home/user",
		"EMPTY=",
		"TRICKY=a=b=c",
	}

	snap, diags := Capture(environ)

	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
	if snap.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", snap.Len())
	}

	tests := []struct {
		name  string
		value string
	}{
		{"PATH", "/bin:/usr/bin"},
		{"HOME", "/home/user"},
		{"EMPTY", ""},
		{"TRICKY", "a=b=c"}, // values may contain "="
	}
	for _, tt := range tests {
		got, ok := snap.Lookup(tt.name)
		if !ok {
			t.Errorf("missing %s", tt.name)
			continue
		}
		if got != tt.value {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.value)
		}
	}
}

func TestCapture_IndependentOfSource(t *testing.T) {
	environ := []string{"FOO=original"}

	snap, _ := Capture(environ)

	// Mutating the source slice after capture must not affect the snapshot.
	environ[0] = "FOO=mutated"

	got, ok := snap.Lookup("FOO")
	if !ok || got != "original" {
		t.Errorf("snapshot changed after source mutation: got %q, %v", got, ok)
	}
}

func TestCapture_MalformedEntry(t *testing.T) {
	environ := []string{
		"GOOD=yes",
		"NOEQUALS",
	}

	snap, diags := Capture(environ)

	if snap.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", snap.Len())
	}
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	if diags[0].Entry != "NOEQUALS" {
		t.Errorf("diagnostic should reference the entry, got %q", diags[0].Entry)
	}
}

func TestCapture_InvalidUTF8Excluded(t *testing.T) {
	invalid := string([]byte{0xff, 0xfe})

	environ := []string{
		"GOOD=yes",
		invalid + "=value",
		"NAME=" + invalid,
	}

	snap, diags := Capture(environ)

	if snap.Len() != 1 {
		t.Errorf("expected only the valid entry, got %d entries", snap.Len())
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	for _, d := range diags {
		if d.Reason != "not valid UTF-8" {
			t.Errorf("unexpected reason %q", d.Reason)
		}
	}
	if _, ok := snap.Lookup("NAME"); ok {
		t.Error("entry with invalid value should be excluded")
	}
}

func TestCapture_DuplicateNamesLastWins(t *testing.T) {
	environ := []string{
		"DUP=first",
		"DUP=second",
	}

	snap, _ := Capture(environ)

	got, _ := snap.Lookup("DUP")
	if got != "second" {
		t.Errorf("expected last occurrence to win, got %q", got)
	}
}

func TestValues_ReturnsIndependentCopy(t *testing.T) {
	snap := FromMap(map[string]string{"A": "1"})

	values := snap.Values()
	values["A"] = "tampered"
	values["B"] = "injected"

	if got, _ := snap.Lookup("A"); got != "1" {
		t.Errorf("snapshot mutated through Values copy: %q", got)
	}
	if _, ok := snap.Lookup("B"); ok {
		t.Error("snapshot gained entry through Values copy")
	}
}

func TestFromMap_CopiesInput(t *testing.T) {
	source := map[string]string{"A": "1"}

	snap := FromMap(source)
	source["A"] = "mutated"

	if got, _ := snap.Lookup("A"); got != "1" {
		t.Errorf("snapshot shares storage with source map: %q", got)
	}
}

func TestNames_Sorted(t *testing.T) {
	snap := FromMap(map[string]string{"C": "3", "A": "1", "B": "2"})

	names := snap.Names()
	want := []string{"A", "B", "C"}

	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := FromMap(map[string]string{"X": "1", "Y": "2"})
	b := FromMap(map[string]string{"Y": "2", "X": "1"})

	if a.Hash() != b.Hash() {
		t.Error("equal snapshots must hash identically")
	}

	c := FromMap(map[string]string{"X": "1", "Y": "changed"})
	if a.Hash() == c.Hash() {
		t.Error("different snapshots should hash differently")
	}
}

func TestHash_EmptySnapshot(t *testing.T) {
	empty, _ := Capture(nil)

	if empty.Hash() != FromMap(nil).Hash() {
		t.Error("empty snapshots must hash identically")
	}
}
