package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	ptb "github.com/sageflow/ptbcodec/ptb"
	"github.com/sageflow/ptbcodec/ptb/config"
)

var (
	cfgFile string
	verbose bool

	logger = ptb.GetLogger()
)

var rootCmd = &cobra.Command{
	Use:   "ptbcodec",
	Short: "Decode and re-emit Peachtree PTB backup containers",
	Long: `ptbcodec recovers structured business records (accounts, customers,
vendors, items, addresses) from the undocumented binary data files inside a
PTB backup container, and re-emits legacy-compatible archives from
normalized entity data.

Extraction is heuristic: the data files have no published schema, so the
engine reports statistics alongside every result for operators to judge
extraction quality.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// loadOptions resolves engine options from the config file (or defaults)
// plus command-line toggles.
func loadOptions(debug, strict bool) (config.Options, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return config.Options{}, err
	}
	opts := cfg.Options()
	opts.Debug = debug
	opts.StrictFilters = strict
	return opts, nil
}
