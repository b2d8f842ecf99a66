package metrics

import (
	"encoding/json"
	"os"
)

// Counts is the fixed set of site-level metrics the risk classifier
// consumes. It is derived once from the raw audit artifact; everything
// downstream works from this record only.
type Counts struct {
	UniqueItems          int  `json:"unique_items"`
	ExternalIdentities   int  `json:"external_identities"`
	DirectWebAssignments int  `json:"direct_web_assignments"`
	GroupsWithoutOwner   int  `json:"groups_without_owner"`
	AnyoneOrEveryone     bool `json:"anyone_or_everyone"`
	ExternalOwner        bool `json:"external_owner"`
}

// envelope matches the artifact shape emitted by the audit script.
type envelope struct {
	Metrics map[string]any `json:"metrics"`
}

// Normalize maps a raw metrics mapping onto Counts. The field names are
// fixed by the audit script contract; any of them may be absent, null or
// carry the wrong type. Missing numeric fields default to 0, missing
// booleans to false. Numeric values are truncated to int and not clamped.
func Normalize(raw map[string]any) Counts {
	return Counts{
		UniqueItems:          intField(raw, "itemsWithUniquePermissions"),
		ExternalIdentities:   intField(raw, "externalUsers"),
		DirectWebAssignments: intField(raw, "webDirectAssignments"),
		GroupsWithoutOwner:   intField(raw, "orphanedGroups"),
		AnyoneOrEveryone:     boolField(raw, "anyoneOrEveryoneAtWeb"),
		ExternalOwner:        boolField(raw, "externalOwnerPresent"),
	}
}

// Load reads an audit JSON artifact and normalizes its metrics section.
// Bad metrics never fail a site: an unreadable file, malformed JSON or a
// missing metrics section all yield the all-defaults record.
func Load(path string) Counts {
	data, err := os.ReadFile(path)
	if err != nil {
		return Counts{}
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Counts{}
	}
	return Normalize(env.Metrics)
}

func intField(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

// boolField applies truthiness to whatever the source holds, so a metric
// reported as 1 or "yes" still registers.
func boolField(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return false
}
