package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"envscope/internal/engine"
	"envscope/internal/pattern"
	"envscope/internal/rule"
	"envscope/internal/snapshot"
)

func generate(t *testing.T, values map[string]string, rules rule.RuleSet) EnvArtifact {
	t.Helper()
	snap := snapshot.FromMap(values)
	env := engine.Resolve(snap, rules, pattern.NewRegexp())
	return Generate(snap, rules, env)
}

func TestGenerate_TiesInputsToOutput(t *testing.T) {
	rules := rule.RuleSet{
		rule.Blacklist(".*"),
		rule.Set("CARGO_HOME", "/opt/cargo"),
	}

	art := generate(t, map[string]string{"PATH": "/bin"}, rules)

	if len(art.Values) != 1 || art.Values["CARGO_HOME"] != "/opt/cargo" {
		t.Errorf("unexpected resolved values: %v", art.Values)
	}
	if len(art.Rules) != 2 {
		t.Errorf("artifact should record the rules as applied, got %d", len(art.Rules))
	}
	if art.SnapshotHash != snapshot.FromMap(map[string]string{"PATH": "/bin"}).Hash() {
		t.Error("snapshot hash mismatch")
	}
	if art.EnvVersion != ComputeEnvVersion(art.Values) {
		t.Error("envVersion must hash the resolved values")
	}
	if art.ResolutionID == "" || art.RulesHash == "" {
		t.Error("hashes must be populated")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	values := map[string]string{"A": "1", "B": "2"}
	rules := rule.RuleSet{rule.Whitelist("A")}

	first := generate(t, values, rules)
	second := generate(t, values, rules)

	if first.ResolutionID != second.ResolutionID {
		t.Error("identical inputs must produce identical resolution IDs")
	}
	if first.EnvVersion != second.EnvVersion {
		t.Error("identical inputs must produce identical env versions")
	}
}

func TestComputeRulesHash_OrderSensitive(t *testing.T) {
	forward := rule.RuleSet{rule.Blacklist("FOO"), rule.Set("FOO", "BAR")}
	reversed := rule.RuleSet{rule.Set("FOO", "BAR"), rule.Blacklist("FOO")}

	if ComputeRulesHash(forward) == ComputeRulesHash(reversed) {
		t.Error("rule order is semantic and must change the hash")
	}
}

func TestComputeRulesHash_DistinguishesKinds(t *testing.T) {
	whitelist := rule.RuleSet{rule.Whitelist("P")}
	blacklist := rule.RuleSet{rule.Blacklist("P")}

	if ComputeRulesHash(whitelist) == ComputeRulesHash(blacklist) {
		t.Error("rules differing only in kind must hash differently")
	}
}

func TestComputeEnvVersion_OrderIndependent(t *testing.T) {
	// Maps have no order; equal contents must hash equally.
	a := ComputeEnvVersion(map[string]string{"X": "1", "Y": "2"})
	b := ComputeEnvVersion(map[string]string{"Y": "2", "X": "1"})

	if a != b {
		t.Error("equal value maps must produce equal env versions")
	}
}

func TestToCanonicalJSON_SortedNoWhitespace(t *testing.T) {
	art := EnvArtifact{Values: map[string]string{"B": "2", "A": "1"}}

	got := string(art.ToCanonicalJSON())
	want := `{"A":"1","B":"2"}`

	if got != want {
		t.Errorf("canonical JSON = %s, want %s", got, want)
	}
}

func TestToCanonicalJSON_Empty(t *testing.T) {
	art := EnvArtifact{}

	if got := string(art.ToCanonicalJSON()); got != "{}" {
		t.Errorf("canonical JSON of empty values = %s, want {}", got)
	}
}

func TestWriteToFile(t *testing.T) {
	art := generate(t, map[string]string{"A": "1"}, nil)

	path := filepath.Join(t.TempDir(), "nested", "artifact.json")
	if err := art.WriteToFile(path); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact back failed: %v", err)
	}

	var loaded EnvArtifact
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("artifact file is not valid JSON: %v", err)
	}
	if loaded.EnvVersion != art.EnvVersion {
		t.Error("round-tripped artifact lost its env version")
	}
	if loaded.Values["A"] != "1" {
		t.Error("round-tripped artifact lost its values")
	}
}
