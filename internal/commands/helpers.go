package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ppiankov/spospectre/internal/runner"
	"golang.org/x/term"
)

// resolveCertPassword reads the certificate password from the named
// environment variable, falling back to an interactive prompt when
// stdin is a terminal. An unavailable password is a fatal pre-run
// condition.
func resolveCertPassword(envVar string) (string, error) {
	if pass := os.Getenv(envVar); pass != "" {
		return pass, nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "Certificate password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read certificate password: %w", err)
		}
		if len(raw) > 0 {
			return string(raw), nil
		}
	}
	return "", fmt.Errorf("certificate password not available: set %s or run interactively", envVar)
}

// printRunSummary writes one colored status line per site to stdout.
func printRunSummary(outcomes []runner.Outcome) {
	fmt.Println()
	for _, o := range outcomes {
		if o.OK() {
			fmt.Printf("  %s %s (%d findings)\n", color.GreenString("[OK]"), o.Site, len(o.Findings))
		} else {
			fmt.Printf("  %s %s at %s: %v\n", color.RedString("[FAILED]"), o.Site, o.Stage, o.Err)
		}
	}
}

// enhanceError enhances an error with additional context and helpful suggestions
func enhanceError(operation string, err error) error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "no PowerShell executable found") {
		return fmt.Errorf("%s failed: PowerShell is not installed.\n"+
			"Solutions:\n"+
			"  - Install PowerShell 7 (pwsh)\n"+
			"  - Install the PnP.PowerShell module: Install-Module PnP.PowerShell\n"+
			"Original error: %w", operation, err)
	}

	if strings.Contains(errMsg, "AccessDenied") || strings.Contains(errMsg, "Access is denied") ||
		strings.Contains(errMsg, "(401)") || strings.Contains(errMsg, "(403)") {
		return fmt.Errorf("%s failed: Access Denied.\n"+
			"Solutions:\n"+
			"  - Verify the app registration has Sites.Selected application permission with admin consent\n"+
			"  - Check that the certificate is uploaded to the app registration\n"+
			"  - Confirm the tenant ID matches the certificate's tenant\n"+
			"Original error: %w", operation, err)
	}

	if strings.Contains(errMsg, "context deadline exceeded") {
		return fmt.Errorf("%s failed: Time budget exceeded.\n"+
			"Solutions:\n"+
			"  - Raise --time-budget\n"+
			"  - Reduce --max-items or raise --batch-size\n"+
			"Original error: %w", operation, err)
	}

	if strings.Contains(errMsg, "no such file or directory") {
		return fmt.Errorf("%s failed: File not found.\n"+
			"Solutions:\n"+
			"  - Check the --pfx-path and --script-path locations\n"+
			"  - Ensure the --output directory is writable\n"+
			"Original error: %w", operation, err)
	}

	// Default error with context
	return fmt.Errorf("%s failed: %w", operation, err)
}
