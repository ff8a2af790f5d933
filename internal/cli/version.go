package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/devkit/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the devkit version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "devkit %s\n", version.GetFullVersion())
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
