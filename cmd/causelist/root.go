package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for causelist.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "causelist",
		Short: "Find an advocate's cases in the Calcutta High Court cause list",
		Long: `causelist downloads the published cause list of the High Court at Calcutta
for a hearing date and side, and returns every case entry that names the
given advocate.

When the list is not published (weekends, holidays) or cannot be read,
the fixed message "Unable to fetch cause_list details due to weekends or
failed to fetch cause list" is returned instead of entries.

Settings are read from .causelist in the current or home directory, or
from $XDG_CONFIG_HOME/causelist/config.yaml. Run "causelist init" to
create one.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .causelist in current or home directory)")

	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
