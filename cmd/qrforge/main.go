package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/synthfhir/qrforge/cmd/qrforge/commands"
	"github.com/synthfhir/qrforge/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qrforge",
	Short: "qrforge - Synthetic FHIR QuestionnaireResponse bundle forge",
	Long: `qrforge - Synthesize FHIR QuestionnaireResponse bundles from header tables.

qrforge turns a header CSV (one row per intended response) into chunked
FHIR batch bundles, with answers generated deterministically, from
placeholder pools, or by an external text-generation service.

Available commands:
  synth         - Synthesize QuestionnaireResponse batch bundles from a header CSV
  definitions   - Build the CodeSystem/ValueSet/Questionnaire transaction bundle
  export-header - Export the header CSV from a HAPI FHIR database
  version       - Show version information

Examples:
  qrforge synth --mode nreq --csv input/header.csv --out output --seed 42
  qrforge synth --mode ppnq --csv input/header.csv --out output --dry-run --seed 7
  qrforge synth --mode ppnq --csv input/header.csv --out output --llm
  qrforge definitions --in fhir-definitions --out output/definitions_bundle.json
  qrforge export-header --out input/QuestionnaireResponse-Header.csv`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetVerbose()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(commands.SynthCmd)
	rootCmd.AddCommand(commands.DefinitionsCmd)
	rootCmd.AddCommand(commands.ExportHeaderCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
