package metrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize_EmptyInput(t *testing.T) {
	got := Normalize(map[string]any{})
	if got != (Counts{}) {
		t.Fatalf("expected all-defaults record, got %+v", got)
	}
}

func TestNormalize_NilInput(t *testing.T) {
	got := Normalize(nil)
	if got != (Counts{}) {
		t.Fatalf("expected all-defaults record, got %+v", got)
	}
}

func TestNormalize_AllFields(t *testing.T) {
	raw := map[string]any{
		"itemsWithUniquePermissions": float64(300),
		"externalUsers":              float64(12),
		"webDirectAssignments":       float64(4),
		"orphanedGroups":             float64(2),
		"anyoneOrEveryoneAtWeb":      true,
		"externalOwnerPresent":       false,
	}

	got := Normalize(raw)

	want := Counts{
		UniqueItems:          300,
		ExternalIdentities:   12,
		DirectWebAssignments: 4,
		GroupsWithoutOwner:   2,
		AnyoneOrEveryone:     true,
		ExternalOwner:        false,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNormalize_WrongTypes(t *testing.T) {
	raw := map[string]any{
		"itemsWithUniquePermissions": "lots",
		"externalUsers":              nil,
		"webDirectAssignments":       map[string]any{"nested": true},
		"orphanedGroups":             []any{1, 2},
	}

	got := Normalize(raw)
	if got != (Counts{}) {
		t.Fatalf("expected wrong-typed numeric fields to default, got %+v", got)
	}
}

func TestNormalize_BooleanTruthiness(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"nonzero number", float64(1), true},
		{"zero number", float64(0), false},
		{"nonempty string", "yes", true},
		{"empty string", "", false},
		{"null", nil, false},
	}

	for _, tt := range cases {
		got := Normalize(map[string]any{"anyoneOrEveryoneAtWeb": tt.value})
		if got.AnyoneOrEveryone != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got.AnyoneOrEveryone)
		}
	}
}

func TestNormalize_NegativePassthrough(t *testing.T) {
	got := Normalize(map[string]any{"externalUsers": float64(-3)})
	if got.ExternalIdentities != -3 {
		t.Fatalf("expected negative value passed through, got %d", got.ExternalIdentities)
	}
}

func TestLoad_ValidArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.json")
	content := `{"metrics":{"itemsWithUniquePermissions":42,"externalOwnerPresent":true}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	got := Load(path)
	if got.UniqueItems != 42 {
		t.Fatalf("expected 42 unique items, got %d", got.UniqueItems)
	}
	if !got.ExternalOwner {
		t.Fatalf("expected external owner flag set")
	}
	if got.ExternalIdentities != 0 {
		t.Fatalf("expected absent field to default to 0, got %d", got.ExternalIdentities)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	got := Load(filepath.Join(t.TempDir(), "missing.json"))
	if got != (Counts{}) {
		t.Fatalf("expected all-defaults record, got %+v", got)
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	got := Load(path)
	if got != (Counts{}) {
		t.Fatalf("expected all-defaults record, got %+v", got)
	}
}

func TestLoad_MissingMetricsSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.json")
	if err := os.WriteFile(path, []byte(`{"site":"https://example"}`), 0644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	got := Load(path)
	if got != (Counts{}) {
		t.Fatalf("expected all-defaults record, got %+v", got)
	}
}
