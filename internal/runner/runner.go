package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/ppiankov/spospectre/internal/analyzer"
	"github.com/ppiankov/spospectre/internal/metrics"
	"github.com/ppiankov/spospectre/internal/report"
)

// Stage identifies a step in the per-site pipeline.
type Stage string

const (
	StageGrant   Stage = "grant"
	StageAudit   Stage = "audit"
	StageAnalyze Stage = "analyze"
)

// Granter ensures the auditing app holds write-level access on a site.
type Granter interface {
	Grant(ctx context.Context, siteURL string) error
}

// Auditor scans a site's permission and sharing state and returns the
// path of the JSON artifact it wrote under outDir.
type Auditor interface {
	Audit(ctx context.Context, siteURL, outDir string) (string, error)
}

// Outcome records how far a single site progressed. Stage and Err are
// set only when a stage failed; Findings is populated only when the
// analyze stage completed.
type Outcome struct {
	Site     string
	Dir      string
	Findings []analyzer.Finding
	Stage    Stage
	Err      error
}

// OK reports whether every stage completed for the site.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Runner sequences the grant, audit and analyze stages for each site.
// Sites are processed strictly in order with no shared state between
// iterations; a failing stage is logged with its site, recorded in the
// outcome, and the loop moves on to the next site.
type Runner struct {
	Granter    Granter
	Auditor    Auditor
	Thresholds analyzer.Thresholds

	// Now is the report timestamp source; defaults to time.Now.
	Now func() time.Time
}

// Run processes every site and returns one outcome per site, in input
// order. Per-site failures never abort the run.
func (r *Runner) Run(ctx context.Context, rc RunContext, sites []string) []Outcome {
	outcomes := make([]Outcome, 0, len(sites))
	for _, site := range sites {
		outcome := r.runSite(ctx, rc, site)
		if !outcome.OK() {
			slog.Error("Site stage failed",
				"site", outcome.Site,
				"stage", string(outcome.Stage),
				"error", outcome.Err,
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (r *Runner) runSite(ctx context.Context, rc RunContext, site string) Outcome {
	outcome := Outcome{Site: site}

	dir, err := rc.SiteDir(site)
	if err != nil {
		outcome.Stage, outcome.Err = StageGrant, err
		return outcome
	}
	outcome.Dir = dir

	slog.Info("Granting site access", "site", site)
	if err := r.Granter.Grant(ctx, site); err != nil {
		outcome.Stage, outcome.Err = StageGrant, err
		return outcome
	}

	slog.Info("Auditing site", "site", site)
	artifact, err := r.Auditor.Audit(ctx, site, dir)
	if err != nil {
		outcome.Stage, outcome.Err = StageAudit, err
		return outcome
	}

	slog.Info("Analyzing audit output", "site", site)
	counts := metrics.Load(artifact)
	findings := analyzer.Classify(counts, r.Thresholds)
	doc := report.Compose(site, counts, findings, r.now())
	if err := doc.Write(dir); err != nil {
		outcome.Stage, outcome.Err = StageAnalyze, err
		return outcome
	}

	outcome.Findings = findings
	return outcome
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
