package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"biovalid/internal/validator"
	"biovalid/pkg/domain"
)

var flagOutput string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Validate a batch file and export valid samples to the repository format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := readBatchFile(args[0])
		if err != nil {
			return err
		}

		cfg := engineConfig()
		cache, cleanup, err := newCache(cmd.Context(), cfg, domain.StdLogger{})
		if err != nil {
			return err
		}
		defer cleanup()

		engine := validator.New(cache, cfg, domain.StdLogger{})
		result, err := engine.ValidateBatch(cmd.Context(), batch, checkOptions())
		if err != nil {
			return err
		}
		exported := validator.ExportBatch(batch, result)

		out := cmd.OutOrStdout()
		if flagOutput != "" {
			f, err := os.Create(flagOutput)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(exported); err != nil {
			return err
		}

		if result.Summary.Invalid > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d invalid sample(s)\n", result.Summary.Invalid)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write export to file instead of stdout")
}
