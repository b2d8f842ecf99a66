package commands

import (
	"log/slog"

	"github.com/ppiankov/spospectre/internal/config"
	"github.com/ppiankov/spospectre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string
	commit  string
	date    string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "spospectre",
	Short: "SpoSpectre - SharePoint Online sharing auditor",
	Long: `SpoSpectre grants itself scoped access to SharePoint Online sites,
runs a permission and sharing audit against each one, and classifies the
resulting metrics into Critical/High/Medium findings with rendered reports.

Part of the Spectre family of infrastructure cleanup tools.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		loaded, err := config.Load(".")
		if err != nil {
			slog.Warn("Failed to load config file", "error", err)
		} else {
			cfg = loaded
		}
	},
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

// GetVersion returns the current version.
func GetVersion() string {
	return version
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(versionCmd)
}
