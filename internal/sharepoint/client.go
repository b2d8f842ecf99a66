package sharepoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Client invokes PnP PowerShell against SharePoint Online using
// certificate-based app-only authentication. It is the process boundary
// for both external capabilities: granting site access and running the
// audit script.
type Client struct {
	Tenant       string
	AppID        string
	CertPath     string
	CertPassword string
	DisplayName  string
	Options      AuditOptions

	shell string
}

// NewClient resolves a PowerShell executable and returns a client bound
// to the given app identity.
func NewClient(tenant, appID, certPath, certPassword string) (*Client, error) {
	shell, err := findShell()
	if err != nil {
		return nil, err
	}
	return &Client{
		Tenant:       tenant,
		AppID:        appID,
		CertPath:     certPath,
		CertPassword: certPassword,
		DisplayName:  "Audit Agent",
		shell:        shell,
	}, nil
}

func findShell() (string, error) {
	for _, name := range []string{"pwsh", "powershell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no PowerShell executable found (tried pwsh, powershell)")
}

var siteURLPattern = regexp.MustCompile(`^https://([a-zA-Z0-9-]+)\.sharepoint\.com/`)

// AdminURL derives the tenant admin center URL from a site URL.
func AdminURL(siteURL string) (string, error) {
	m := siteURLPattern.FindStringSubmatch(siteURL)
	if m == nil {
		return "", fmt.Errorf("unsupported SharePoint URL: %s", siteURL)
	}
	return fmt.Sprintf("https://%s-admin.sharepoint.com", m[1]), nil
}

// psQuote escapes a value for interpolation inside a single-quoted
// PowerShell string literal.
func psQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// run executes a PowerShell script fragment and surfaces stderr on
// failure. Context cancellation (including audit time budgets) kills the
// child process.
func (c *Client) run(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, c.shell, "-NoProfile", "-Command", script)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("powershell: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("powershell: %w: %s", err, msg)
		}
		return fmt.Errorf("powershell: %w", err)
	}
	return nil
}
