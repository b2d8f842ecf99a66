package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/spospectre/internal/analyzer"
	"github.com/ppiankov/spospectre/internal/report"
)

func TestFlatten(t *testing.T) {
	results := []report.SiteFindings{
		{
			Site: "https://contoso.sharepoint.com/sites/a",
			Findings: []analyzer.Finding{
				{ID: analyzer.RuleUniqueItems, Severity: analyzer.High, Message: "Items with unique permissions: 300"},
				{ID: analyzer.RuleGroupWithoutOwner, Severity: analyzer.Medium, Message: "SharePoint groups without owners: 2"},
			},
		},
		{Site: "https://contoso.sharepoint.com/sites/b"},
	}

	findings := Flatten(results)

	if len(findings) != 2 {
		t.Fatalf("expected 2 flattened findings, got %d", len(findings))
	}
	if findings[0].ID != analyzer.RuleUniqueItems || findings[0].Site != "https://contoso.sharepoint.com/sites/a" {
		t.Errorf("unexpected first finding: %+v", findings[0])
	}
}

func TestDiff(t *testing.T) {
	current := []Finding{
		{ID: "UNIQUE_ITEMS", Site: "a"},
		{ID: "EXTERNAL_OWNER", Site: "a"},
		{ID: "UNIQUE_ITEMS", Site: "b"},
	}
	baseline := []Finding{
		{ID: "UNIQUE_ITEMS", Site: "a"},
		{ID: "GROUP_WITHOUT_OWNER", Site: "b"},
	}

	diff := Diff(current, baseline)

	if len(diff.New) != 2 {
		t.Errorf("expected 2 new findings, got %+v", diff.New)
	}
	if len(diff.Resolved) != 1 || diff.Resolved[0].ID != "GROUP_WITHOUT_OWNER" {
		t.Errorf("expected 1 resolved finding, got %+v", diff.Resolved)
	}
	if len(diff.Unchanged) != 1 || diff.Unchanged[0].ID != "UNIQUE_ITEMS" || diff.Unchanged[0].Site != "a" {
		t.Errorf("expected 1 unchanged finding, got %+v", diff.Unchanged)
	}
}

func TestDiff_EmptyInputs(t *testing.T) {
	diff := Diff(nil, nil)
	if len(diff.New) != 0 || len(diff.Resolved) != 0 || len(diff.Unchanged) != 0 {
		t.Fatalf("expected empty diff, got %+v", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "findings.json")
	content := `{
  "schema": "spectre/v1",
  "tool": "spospectre",
  "findings": [
    {"id": "UNIQUE_ITEMS", "severity": "high", "location": "https://contoso.sharepoint.com/sites/a", "message": "Items with unique permissions: 300"}
  ],
  "summary": {"total": 1, "high": 1}
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write baseline: %v", err)
	}

	findings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].ID != "UNIQUE_ITEMS" || findings[0].Site != "https://contoso.sharepoint.com/sites/a" {
		t.Errorf("unexpected finding: %+v", findings[0])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing baseline")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "findings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("write baseline: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed baseline")
	}
}
