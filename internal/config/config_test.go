package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/spospectre/internal/analyzer"
)

func TestLoad_NoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TenantID != "" {
		t.Fatalf("expected empty tenant, got %q", cfg.TenantID)
	}
	if cfg.Thresholds != nil {
		t.Fatalf("expected nil threshold overrides")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	content := `tenant_id: contoso.onmicrosoft.com
app_id: 11111111-2222-3333-4444-555555555555
cert_path: /secrets/audit.pfx
script_path: /opt/audit/Invoke-SpoAudit.ps1
internal_domains:
  - contoso.com
  - contoso.co.uk
max_items: 10000
batch_size: 100
time_budget: 30m
`
	if err := os.WriteFile(filepath.Join(dir, ".spospectre.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TenantID != "contoso.onmicrosoft.com" {
		t.Fatalf("expected tenant, got %q", cfg.TenantID)
	}
	if len(cfg.InternalDomains) != 2 {
		t.Fatalf("expected 2 internal domains, got %d", len(cfg.InternalDomains))
	}
	if cfg.MaxItems != 10000 {
		t.Fatalf("expected max_items 10000, got %d", cfg.MaxItems)
	}
	if cfg.TimeBudgetDuration() != 30*time.Minute {
		t.Fatalf("expected 30m time budget, got %v", cfg.TimeBudgetDuration())
	}
}

func TestLoad_YMLExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".spospectre.yml"), []byte("tenant_id: fabrikam"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TenantID != "fabrikam" {
		t.Fatalf("expected tenant fabrikam, got %q", cfg.TenantID)
	}
}

func TestLoad_YAMLTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".spospectre.yaml"), []byte("tenant_id: first"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".spospectre.yml"), []byte("tenant_id: second"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TenantID != "first" {
		t.Fatalf("expected .yaml to win, got %q", cfg.TenantID)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".spospectre.yaml"), []byte("tenant_id: [broken"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestThresholdOverrides_Apply(t *testing.T) {
	dir := t.TempDir()
	content := `thresholds:
  critical:
    anyone_or_everyone: false
  high:
    unique_items_gt: 100
  medium:
    external_item_identities_gte: 5
`
	if err := os.WriteFile(filepath.Join(dir, ".spospectre.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := cfg.Thresholds.Apply(analyzer.DefaultThresholds())

	if got.Critical.AnyoneOrEveryone {
		t.Errorf("expected anyone_or_everyone disabled")
	}
	if !got.Critical.ExternalOwner {
		t.Errorf("expected external_owner to keep its default")
	}
	if got.High.UniqueItemsGT != 100 {
		t.Errorf("expected unique_items_gt 100, got %d", got.High.UniqueItemsGT)
	}
	if got.Medium.ExternalItemIdentitiesGTE != 5 {
		t.Errorf("expected external_item_identities_gte 5, got %d", got.Medium.ExternalItemIdentitiesGTE)
	}
	if !got.Medium.GroupWithoutOwner {
		t.Errorf("expected group_without_owner to keep its default")
	}
}

func TestThresholdOverrides_NilApply(t *testing.T) {
	var o *ThresholdOverrides
	got := o.Apply(analyzer.DefaultThresholds())
	if got != analyzer.DefaultThresholds() {
		t.Fatalf("expected defaults unchanged, got %+v", got)
	}
}

func TestTimeBudgetDuration_Unparseable(t *testing.T) {
	cfg := Config{TimeBudget: "not-a-duration"}
	if cfg.TimeBudgetDuration() != 0 {
		t.Fatalf("expected 0 for unparseable duration")
	}
}
