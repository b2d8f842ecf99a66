package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/spospectre/internal/analyzer"
	"github.com/ppiankov/spospectre/internal/baseline"
	"github.com/ppiankov/spospectre/internal/report"
	"github.com/ppiankov/spospectre/internal/runner"
	"github.com/ppiankov/spospectre/internal/sharepoint"
	"github.com/spf13/cobra"
)

// FindingsFileName is the run-level spectre/v1 export written next to
// the per-site directories.
const FindingsFileName = "findings.json"

var auditFlags struct {
	tenantID        string
	appID           string
	certPath        string
	certPassEnv     string
	scriptPath      string
	siteURL         string
	csvPath         string
	internalDomains []string
	output          string
	maxItems        int
	batchSize       int
	timeBudget      time.Duration
	uniqueItemsGT   int
	externalIDsGTE  int
	baselinePath    string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Grant, audit and analyze SharePoint sites",
	Long: `Runs the full audit pipeline against one site or a CSV of sites: grants
the app Sites.Selected write access, invokes the PnP audit script, and
classifies the emitted metrics into a findings report per site.

A failure in any stage skips the remaining stages for that site only;
the run always continues with the next site.`,
	RunE: runAudit,
}

func init() {
	defaults := analyzer.DefaultThresholds()

	auditCmd.Flags().StringVar(&auditFlags.tenantID, "tenant-id", "", "Entra tenant ID or domain")
	auditCmd.Flags().StringVar(&auditFlags.appID, "app-id", "", "Application (client) ID of the auditing app")
	auditCmd.Flags().StringVar(&auditFlags.certPath, "pfx-path", "", "Path to the authentication certificate (PFX)")
	auditCmd.Flags().StringVar(&auditFlags.certPassEnv, "pfx-pass-env", "SPO_CERT_PASS", "Environment variable holding the certificate password")
	auditCmd.Flags().StringVar(&auditFlags.scriptPath, "script-path", "", "Path to the PnP audit script")
	auditCmd.Flags().StringVar(&auditFlags.siteURL, "site-url", "", "Single site URL to audit")
	auditCmd.Flags().StringVar(&auditFlags.csvPath, "csv", "", "CSV file with a SiteUrl column")
	auditCmd.Flags().StringSliceVar(&auditFlags.internalDomains, "internal-domains", nil, "Domain suffixes treated as internal by the audit script")
	auditCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "Output root directory for run artifacts")
	auditCmd.Flags().IntVar(&auditFlags.maxItems, "max-items", 50000, "Maximum items the audit script scans per site")
	auditCmd.Flags().IntVar(&auditFlags.batchSize, "batch-size", 200, "Paging hint for the audit script")
	auditCmd.Flags().DurationVar(&auditFlags.timeBudget, "time-budget", 60*time.Minute, "Wall-clock budget per site audit")
	auditCmd.Flags().IntVar(&auditFlags.uniqueItemsGT, "unique-items-gt", defaults.High.UniqueItemsGT, "High threshold: unique-permission items (strictly greater than)")
	auditCmd.Flags().IntVar(&auditFlags.externalIDsGTE, "external-ids-gte", defaults.Medium.ExternalItemIdentitiesGTE, "Medium threshold: external identities (at least)")
	auditCmd.Flags().StringVar(&auditFlags.baselinePath, "baseline", "", "Previous run's findings.json for diff comparison")

	auditCmd.MarkFlagsMutuallyExclusive("site-url", "csv")
	auditCmd.MarkFlagsOneRequired("site-url", "csv")
}

func runAudit(cmd *cobra.Command, args []string) error {
	applyConfigToAuditFlags(cmd)

	if err := validateAuditFlags(); err != nil {
		return err
	}

	certPass, err := resolveCertPassword(auditFlags.certPassEnv)
	if err != nil {
		return err
	}

	sites, err := runner.LoadSites(auditFlags.siteURL, auditFlags.csvPath)
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		return errors.New("no sites provided")
	}

	client, err := sharepoint.NewClient(auditFlags.tenantID, auditFlags.appID, auditFlags.certPath, certPass)
	if err != nil {
		return enhanceError("PowerShell setup", err)
	}
	client.Options = sharepoint.AuditOptions{
		ScriptPath:      auditFlags.scriptPath,
		InternalDomains: auditFlags.internalDomains,
		MaxItems:        auditFlags.maxItems,
		BatchSize:       auditFlags.batchSize,
		TimeBudget:      auditFlags.timeBudget,
	}

	rc, err := runner.NewRunContext(auditFlags.output, time.Now())
	if err != nil {
		return enhanceError("output directory creation", err)
	}

	thresholds := resolveThresholds(cmd)
	r := &runner.Runner{
		Granter:    client,
		Auditor:    client,
		Thresholds: thresholds,
	}

	start := time.Now()
	slog.Info("Starting run", "sites", len(sites), "dir", rc.Dir)
	outcomes := r.Run(cmd.Context(), rc, sites)

	results := collectFindings(outcomes)
	if err := writeFindingsExport(rc, results); err != nil {
		slog.Warn("Failed to write findings export", "error", err)
	}

	if auditFlags.baselinePath != "" {
		baselineFindings, err := baseline.Load(auditFlags.baselinePath)
		if err != nil {
			return enhanceError("baseline load", err)
		}
		diff := baseline.Diff(baseline.Flatten(results), baselineFindings)
		slog.Info("Baseline comparison",
			slog.Int("new", len(diff.New)),
			slog.Int("resolved", len(diff.Resolved)),
			slog.Int("unchanged", len(diff.Unchanged)),
		)
	}

	printRunSummary(outcomes)

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	slog.Info("Run complete",
		slog.Int("sites", len(outcomes)),
		slog.Int("failed", failed),
		slog.Duration("duration", time.Since(start)),
	)
	fmt.Printf("\nRun complete → %s\n", rc.Dir)

	// Per-site failures are reported above but never fail the process.
	return nil
}

func validateAuditFlags() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"tenant-id", auditFlags.tenantID},
		{"app-id", auditFlags.appID},
		{"pfx-path", auditFlags.certPath},
		{"script-path", auditFlags.scriptPath},
		{"output", auditFlags.output},
	} {
		if f.value == "" {
			missing = append(missing, "--"+f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags (or config values): %s", strings.Join(missing, ", "))
	}
	return nil
}

func resolveThresholds(cmd *cobra.Command) analyzer.Thresholds {
	thresholds := cfg.Thresholds.Apply(analyzer.DefaultThresholds())
	if cmd.Flags().Lookup("unique-items-gt").Changed {
		thresholds.High.UniqueItemsGT = auditFlags.uniqueItemsGT
	}
	if cmd.Flags().Lookup("external-ids-gte").Changed {
		thresholds.Medium.ExternalItemIdentitiesGTE = auditFlags.externalIDsGTE
	}
	return thresholds
}

func collectFindings(outcomes []runner.Outcome) []report.SiteFindings {
	var results []report.SiteFindings
	for _, o := range outcomes {
		if o.OK() {
			results = append(results, report.SiteFindings{Site: o.Site, Findings: o.Findings})
		}
	}
	return results
}

func writeFindingsExport(rc runner.RunContext, results []report.SiteFindings) error {
	f, err := os.Create(filepath.Join(rc.Dir, FindingsFileName))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return report.NewSpectreHubReporter(f).Generate(GetVersion(), auditFlags.tenantID, time.Now(), results)
}

func applyConfigToAuditFlags(cmd *cobra.Command) {
	flagDefaults := []struct {
		name  string
		apply func()
		ok    bool
	}{
		{"tenant-id", func() { auditFlags.tenantID = cfg.TenantID }, cfg.TenantID != ""},
		{"app-id", func() { auditFlags.appID = cfg.AppID }, cfg.AppID != ""},
		{"pfx-path", func() { auditFlags.certPath = cfg.CertPath }, cfg.CertPath != ""},
		{"pfx-pass-env", func() { auditFlags.certPassEnv = cfg.CertPassEnv }, cfg.CertPassEnv != ""},
		{"script-path", func() { auditFlags.scriptPath = cfg.ScriptPath }, cfg.ScriptPath != ""},
		{"internal-domains", func() { auditFlags.internalDomains = cfg.InternalDomains }, len(cfg.InternalDomains) > 0},
		{"output", func() { auditFlags.output = cfg.Output }, cfg.Output != ""},
		{"max-items", func() { auditFlags.maxItems = cfg.MaxItems }, cfg.MaxItems > 0},
		{"batch-size", func() { auditFlags.batchSize = cfg.BatchSize }, cfg.BatchSize > 0},
		{"time-budget", func() { auditFlags.timeBudget = cfg.TimeBudgetDuration() }, cfg.TimeBudgetDuration() > 0},
	}
	for _, fd := range flagDefaults {
		if fd.ok && !cmd.Flags().Lookup(fd.name).Changed {
			fd.apply()
		}
	}
}
