// Package artifact produces the immutable audit record of a resolution.
// The record ties together what went in (snapshot hash, ordered rules) and
// what came out (resolved values), each under a deterministic hash, so build
// tooling can treat the logical environment as a fully auditable build input.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"envscope/internal/engine"
	"envscope/internal/rule"
	"envscope/internal/snapshot"
)

// EnvArtifact is the audit record of one resolution.
type EnvArtifact struct {
	ResolutionID string            `json:"resolutionId"` // hash of snapshotHash + rulesHash
	SnapshotHash string            `json:"snapshotHash"` // hash of the captured environment
	RulesHash    string            `json:"rulesHash"`    // hash of the ordered rule list
	EnvVersion   string            `json:"envVersion"`   // hash of the resolved values
	Values       map[string]string `json:"values"`       // the resolved logical environment
	Rules        []rule.Rule       `json:"rules"`        // rules as applied, in order
}

// Generate creates the artifact for a completed resolution.
func Generate(snap snapshot.Snapshot, rules rule.RuleSet, env *engine.LogicalEnvironment) EnvArtifact {
	values := env.Values()
	snapshotHash := snap.Hash()
	rulesHash := ComputeRulesHash(rules)

	return EnvArtifact{
		ResolutionID: hashString(snapshotHash + rulesHash),
		SnapshotHash: snapshotHash,
		RulesHash:    rulesHash,
		EnvVersion:   ComputeEnvVersion(values),
		Values:       values,
		Rules:        rules,
	}
}

// ComputeEnvVersion computes the SHA-256 hash of the values in canonical
// form (sorted keys, no whitespace), prefixed with "sha256:".
func ComputeEnvVersion(values map[string]string) string {
	hash := sha256.Sum256(canonicalValuesJSON(values))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// ComputeRulesHash hashes the ordered rule list. Fields are separated by
// null bytes so distinct rule lists cannot collide by concatenation, and the
// order of rules changes the hash.
func ComputeRulesHash(rules rule.RuleSet) string {
	var parts []string
	for _, ru := range rules {
		parts = append(parts, string(ru.Kind), ru.Pattern, ru.Name, ru.Value)
	}
	return hashString(strings.Join(parts, "\x00"))
}

// ToJSON serializes the artifact to pretty-printed JSON for human
// readability.
func (a EnvArtifact) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// ToCanonicalJSON serializes just the resolved values in canonical form.
// This is the byte stream EnvVersion is computed over.
func (a EnvArtifact) ToCanonicalJSON() []byte {
	return canonicalValuesJSON(a.Values)
}

// canonicalValuesJSON produces canonical JSON for a values map: keys sorted
// alphabetically, no whitespace.
func canonicalValuesJSON(values map[string]string) []byte {
	if len(values) == 0 {
		return []byte("{}")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyJSON, _ := json.Marshal(k)
		valueJSON, _ := json.Marshal(values[k])
		result = append(result, keyJSON...)
		result = append(result, ':')
		result = append(result, valueJSON...)
	}
	result = append(result, '}')
	return result
}

// hashString computes the SHA-256 of a string, prefixed with "sha256:".
func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return "sha256:" + hex.EncodeToString(hash[:])
}
