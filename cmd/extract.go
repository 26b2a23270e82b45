package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sageflow/ptbcodec/ptb/engine"
	"github.com/sageflow/ptbcodec/ptb/entity"
)

var (
	extractOut    string
	extractStrict bool
	extractDebug  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <backup.ptb>",
	Short: "Decode a PTB backup into normalized entity records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(extractDebug, extractStrict)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading backup: %w", err)
		}

		col, err := engine.ImportArchive(context.Background(), data, opts)
		if err != nil {
			return err
		}

		for _, kind := range entity.Kinds() {
			absent := ""
			if col.Stats.SourceAbsent[kind] {
				absent = " (source absent)"
			}
			logger.Info().
				Str("kind", string(kind)).
				Int("count", col.Stats.Counts[kind]).
				Int("non_zero_balances", col.Stats.NonZeroBalances[kind]).
				Msg("extracted" + absent)
		}
		logger.Info().
			Int("tokens", col.Stats.TokensSeen).
			Int("candidates", col.Stats.CandidatesSeen).
			Int("collapsed", col.Stats.DuplicatesCollapsed).
			Int("ambiguities", col.Stats.Ambiguities).
			Msg("extraction statistics")

		if extractOut == "" {
			return nil
		}
		out, err := json.MarshalIndent(col, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding entities: %w", err)
		}
		if err := os.WriteFile(extractOut, out, 0o644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		logger.Info().Str("path", extractOut).Msg("wrote entity data")
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "write entities as JSON to this path")
	extractCmd.Flags().BoolVar(&extractStrict, "strict", false, "use strict token filters")
	extractCmd.Flags().BoolVar(&extractDebug, "debug", false, "collect per-offset diagnostics")
	rootCmd.AddCommand(extractCmd)
}
