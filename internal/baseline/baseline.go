package baseline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/spospectre/internal/report"
)

// Finding is a flattened, identity-comparable risk from one run: the
// rule that fired and the site it fired on.
type Finding struct {
	ID   string `json:"id"`
	Site string `json:"site"`
}

func (f Finding) key() string {
	return f.ID + "|" + f.Site
}

// DiffResult holds the outcome of comparing current findings against a
// previous run's findings.
type DiffResult struct {
	New       []Finding
	Resolved  []Finding
	Unchanged []Finding
}

// Flatten converts per-site classified findings into a flat list.
func Flatten(results []report.SiteFindings) []Finding {
	var findings []Finding
	for _, sf := range results {
		for _, f := range sf.Findings {
			findings = append(findings, Finding{ID: f.ID, Site: sf.Site})
		}
	}
	return findings
}

// findingsExport is the subset of the spectre/v1 envelope the diff
// needs.
type findingsExport struct {
	Findings []struct {
		ID       string `json:"id"`
		Location string `json:"location"`
	} `json:"findings"`
}

// Load reads a previous run's findings export and extracts comparable
// findings.
func Load(path string) ([]Finding, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var export findingsExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	findings := make([]Finding, 0, len(export.Findings))
	for _, f := range export.Findings {
		findings = append(findings, Finding{ID: f.ID, Site: f.Location})
	}
	return findings, nil
}

// Diff compares current findings against a baseline.
func Diff(current, baseline []Finding) DiffResult {
	baseMap := make(map[string]struct{}, len(baseline))
	for _, f := range baseline {
		baseMap[f.key()] = struct{}{}
	}
	curMap := make(map[string]struct{}, len(current))
	for _, f := range current {
		curMap[f.key()] = struct{}{}
	}

	var result DiffResult
	for _, f := range current {
		if _, exists := baseMap[f.key()]; exists {
			result.Unchanged = append(result.Unchanged, f)
		} else {
			result.New = append(result.New, f)
		}
	}
	for _, f := range baseline {
		if _, exists := curMap[f.key()]; !exists {
			result.Resolved = append(result.Resolved, f)
		}
	}
	return result
}
