package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/spospectre/internal/analyzer"
	"github.com/ppiankov/spospectre/internal/metrics"
)

// File names of the two persisted report forms.
const (
	MarkdownFileName = "report.md"
	HTMLFileName     = "report.html"
)

// Document is a composed per-site audit report in both of its persisted
// forms. The HTML form is derived from the markdown form; a rendering
// failure there degrades to an escaped fallback body and never blocks
// the markdown form.
type Document struct {
	Markdown string
	HTML     string
}

var recommendations = []string{
	"Review anonymous sharing & site sharing settings.",
	"Remove direct web permissions where unjustified.",
	"Reduce item-level unique permissions where possible.",
	"Ensure each SharePoint group has an owner.",
}

const sensitivityNotice = "_PII notice: contains user emails and access data. Handle per policy._"

// Compose renders the normalized counts and classified findings into a
// report document.
func Compose(site string, counts metrics.Counts, findings []analyzer.Finding, generated time.Time) Document {
	md := composeMarkdown(site, counts, findings, generated)
	return Document{
		Markdown: md,
		HTML:     renderHTML(md),
	}
}

func composeMarkdown(site string, counts metrics.Counts, findings []analyzer.Finding, generated time.Time) string {
	lines := []string{
		"# SharePoint Audit — Findings & Recommendations",
		"",
		fmt.Sprintf("_Site: %s_", site),
		fmt.Sprintf("_Generated: %s_", generated.Format("2006-01-02T15:04:05")),
		"",
		"## Summary",
		"",
		fmt.Sprintf("- Items with unique permissions: **%d**", counts.UniqueItems),
		fmt.Sprintf("- External identities (item-level): **%d**", counts.ExternalIdentities),
		fmt.Sprintf("- Direct web assignments: **%d**", counts.DirectWebAssignments),
		fmt.Sprintf("- Groups without owners: **%d**", counts.GroupsWithoutOwner),
		fmt.Sprintf("- Anyone/Everyone at web/site: **%v**", counts.AnyoneOrEveryone),
		fmt.Sprintf("- External Owner present: **%v**", counts.ExternalOwner),
		"",
		"## Risk Ratings",
		"",
	}

	if len(findings) > 0 {
		for _, f := range findings {
			lines = append(lines, fmt.Sprintf("- **%s** — %s", f.Severity, f.Message))
		}
	} else {
		lines = append(lines, "- No risks met the configured thresholds.")
	}

	lines = append(lines, "", "## Recommendations (PnP Snippets)", "")
	for _, rec := range recommendations {
		lines = append(lines, "- "+rec)
	}
	lines = append(lines, "", "---", sensitivityNotice, "")

	return strings.Join(lines, "\n")
}

// Write persists both report forms into dir.
func (d Document) Write(dir string) error {
	if err := os.WriteFile(filepath.Join(dir, MarkdownFileName), []byte(d.Markdown), 0644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, HTMLFileName), []byte(d.HTML), 0644); err != nil {
		return fmt.Errorf("write html report: %w", err)
	}
	return nil
}
