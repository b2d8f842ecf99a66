package sharepoint

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactName is the JSON artifact the audit script emits into each
// site directory.
const ArtifactName = "audit.json"

// AuditOptions tune the external audit script invocation.
type AuditOptions struct {
	// ScriptPath locates the PnP audit script.
	ScriptPath string
	// InternalDomains lists domain suffixes the script treats as
	// internal when counting external identities. Passed through only;
	// the classifier never re-examines domain membership.
	InternalDomains []string
	// MaxItems caps how many items the script scans.
	MaxItems int
	// BatchSize is the script's paging hint.
	BatchSize int
	// TimeBudget bounds the wall-clock duration of one audit. Zero
	// means no bound.
	TimeBudget time.Duration
}

// Audit runs the audit script against a site, bounded by the configured
// time budget, and returns the path of the emitted JSON artifact. A
// budget overrun surfaces as a context deadline error for that site.
func (c *Client) Audit(ctx context.Context, siteURL, outDir string) (string, error) {
	if c.Options.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Options.TimeBudget)
		defer cancel()
	}

	artifact := filepath.Join(outDir, ArtifactName)
	if err := c.run(ctx, c.auditScript(siteURL, artifact)); err != nil {
		return "", err
	}
	return artifact, nil
}

func (c *Client) auditScript(siteURL, artifact string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n$sec = ConvertTo-SecureString -String '%s' -AsPlainText -Force\n", psQuote(c.CertPassword))
	fmt.Fprintf(&b, "& '%s' `\n", psQuote(c.Options.ScriptPath))
	fmt.Fprintf(&b, "  -Url '%s' -Tenant '%s' -ClientId '%s' `\n",
		psQuote(siteURL), psQuote(c.Tenant), psQuote(c.AppID))
	fmt.Fprintf(&b, "  -CertificatePath '%s' -CertificatePassword $sec `\n", psQuote(c.CertPath))
	fmt.Fprintf(&b, "  -AutoConfirm -EmitJsonPath '%s' -MaxItemsToScan %d -BatchSize %d",
		psQuote(artifact), c.Options.MaxItems, c.Options.BatchSize)
	if len(c.Options.InternalDomains) > 0 {
		quoted := make([]string, len(c.Options.InternalDomains))
		for i, d := range c.Options.InternalDomains {
			quoted[i] = "'" + psQuote(d) + "'"
		}
		fmt.Fprintf(&b, " `\n  -InternalDomains %s", strings.Join(quoted, " "))
	}
	b.WriteString("\nif ($LASTEXITCODE) { exit $LASTEXITCODE }\n")
	return b.String()
}
