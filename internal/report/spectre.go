package report

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/spospectre/internal/analyzer"
)

// SiteFindings couples a site with its classified findings for
// run-level export.
type SiteFindings struct {
	Site     string             `json:"site"`
	Findings []analyzer.Finding `json:"findings"`
}

// spectre/v1 envelope types, shared across the Spectre family.

type spectreEnvelope struct {
	Schema    string           `json:"schema"`
	Tool      string           `json:"tool"`
	Version   string           `json:"version"`
	Timestamp string           `json:"timestamp"`
	Target    spectreTarget    `json:"target"`
	Findings  []spectreFinding `json:"findings"`
	Summary   spectreSummary   `json:"summary"`
}

type spectreTarget struct {
	Type    string `json:"type"`
	URIHash string `json:"uri_hash"`
}

type spectreFinding struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

type spectreSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
}

// HashTenant produces a sha256 hash of a tenant identifier for target
// identification without leaking the tenant name verbatim.
func HashTenant(tenant string) string {
	h := sha256.Sum256([]byte(tenant))
	return fmt.Sprintf("sha256:%x", h)
}

// SpectreHubReporter generates spectre/v1 JSON envelope output for a
// whole run.
type SpectreHubReporter struct {
	writer io.Writer
}

// NewSpectreHubReporter creates a new SpectreHub reporter.
func NewSpectreHubReporter(w io.Writer) *SpectreHubReporter {
	return &SpectreHubReporter{writer: w}
}

// Generate writes all per-site findings of a run as a spectre/v1
// envelope.
func (r *SpectreHubReporter) Generate(version, tenant string, timestamp time.Time, results []SiteFindings) error {
	envelope := spectreEnvelope{
		Schema:    "spectre/v1",
		Tool:      "spospectre",
		Version:   version,
		Timestamp: timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Target: spectreTarget{
			Type:    "sharepoint",
			URIHash: HashTenant(tenant),
		},
	}

	for _, sf := range results {
		for _, f := range sf.Findings {
			envelope.Findings = append(envelope.Findings, spectreFinding{
				ID:       f.ID,
				Severity: strings.ToLower(f.Severity.String()),
				Location: sf.Site,
				Message:  f.Message,
			})
			countSeverity(&envelope.Summary, f.Severity)
		}
	}

	envelope.Summary.Total = len(envelope.Findings)
	if envelope.Findings == nil {
		envelope.Findings = []spectreFinding{}
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope)
}

func countSeverity(summary *spectreSummary, sev analyzer.Severity) {
	switch sev {
	case analyzer.Critical:
		summary.Critical++
	case analyzer.High:
		summary.High++
	case analyzer.Medium:
		summary.Medium++
	}
}
