package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	ptb "github.com/sageflow/ptbcodec/ptb"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ptbcodec version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", ptb.DefaultAppName, ptb.DefaultAppVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
