package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sageflow/ptbcodec/ptb/engine"
	"github.com/sageflow/ptbcodec/ptb/entity"
)

var (
	exportOut     string
	exportCompany string
)

var exportCmd = &cobra.Command{
	Use:   "export <entities.json>",
	Short: "Package normalized entity records into a PTB archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading entities: %w", err)
		}

		col := entity.NewCollection()
		if err := json.Unmarshal(data, col); err != nil {
			return fmt.Errorf("decoding entities: %w", err)
		}

		out, stats, err := engine.ExportArchive(col, exportCompany)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, out, 0o644); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}

		logger.Info().
			Str("path", exportOut).
			Int("members", stats.Members).
			Int("records", stats.Records).
			Int("truncations", stats.Truncations).
			Msg("export archive written")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "export.ptb", "output archive path")
	exportCmd.Flags().StringVar(&exportCompany, "company", "", "company name for the manifest")
	rootCmd.AddCommand(exportCmd)
}
