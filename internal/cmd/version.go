package cmd

import (
	"fmt"

	"github.com/pretheevi/skillswap/pkg/client"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "SkillSwap CLI v%s\n", client.Version)
	},
}
