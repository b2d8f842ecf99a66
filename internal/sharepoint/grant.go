package sharepoint

import (
	"context"
	"fmt"
)

// Grant ensures the app holds Sites.Selected Write access on the site.
// The underlying PnP call is idempotent: an existing grant at Write or
// above is left untouched. The admin connection is always disconnected,
// even when the grant fails.
func (c *Client) Grant(ctx context.Context, siteURL string) error {
	adminURL, err := AdminURL(siteURL)
	if err != nil {
		return err
	}
	return c.run(ctx, c.grantScript(adminURL, siteURL))
}

func (c *Client) grantScript(adminURL, siteURL string) string {
	return fmt.Sprintf(`
$sec = ConvertTo-SecureString -String '%s' -AsPlainText -Force
Connect-PnPOnline -Url '%s' -Tenant '%s' -ClientId '%s' -CertificatePath '%s' -CertificatePassword $sec
try {
    $existing = Get-PnPAzureADAppSitePermission -Site '%s' -ErrorAction SilentlyContinue | Where-Object {$_.AppId -eq '%s'}
    if ($existing) {
        if ($existing.Permissions -notcontains 'Write') {
            Grant-PnPAzureADAppSitePermission -AppId '%s' -DisplayName '%s' -Site '%s' -Permissions Write | Out-Null
        }
    } else {
        Grant-PnPAzureADAppSitePermission -AppId '%s' -DisplayName '%s' -Site '%s' -Permissions Write | Out-Null
    }
} finally { Disconnect-PnPOnline -ErrorAction SilentlyContinue }
`,
		psQuote(c.CertPassword),
		psQuote(adminURL), psQuote(c.Tenant), psQuote(c.AppID), psQuote(c.CertPath),
		psQuote(siteURL), psQuote(c.AppID),
		psQuote(c.AppID), psQuote(c.DisplayName), psQuote(siteURL),
		psQuote(c.AppID), psQuote(c.DisplayName), psQuote(siteURL),
	)
}
