package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"biovalid/internal/validator"
	"biovalid/pkg/domain"
)

var flagFormat string

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a batch file (.json or .xlsx)",
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

		switch flagFormat {
		case "text":
			fmt.Fprintln(cmd.OutOrStdout(), validator.RenderBatchReport(result))
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown format %s, expected text or json", flagFormat)
		}

		if result.Summary.Invalid > 0 {
			// Non-zero exit without repeating the report on stderr.
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	validateCmd.Flags().BoolVar(&flagNoRelationships, "no-relationships", false, "Skip relationship checks")
	validateCmd.Flags().BoolVar(&flagNoOntology, "no-ontology", false, "Skip ontology text checks")
}
