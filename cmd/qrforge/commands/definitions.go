package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/synthfhir/qrforge/definitions"
	"github.com/synthfhir/qrforge/errors"
)

// DefinitionsCmd packages definition resources into a transaction bundle
var DefinitionsCmd = &cobra.Command{
	Use:   "definitions",
	Short: "Bundle CodeSystem, ValueSet and Questionnaire definitions for upload",
	Long: `Collect FHIR definition resources from a directory into a single
transaction bundle, ordered so that CodeSystems are created before the
ValueSets and Questionnaires that reference them.

Examples:
  qrforge definitions --in fhir-definitions --out output/definitions_bundle.json
  qrforge definitions --in fhir-definitions --out bundle.json --method put`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inDir, _ := cmd.Flags().GetString("in")
		outFile, _ := cmd.Flags().GetString("out")
		methodFlag, _ := cmd.Flags().GetString("method")

		var method definitions.Method
		switch methodFlag {
		case "auto":
			method = definitions.MethodAuto
		case "put":
			method = definitions.MethodPut
		case "post":
			method = definitions.MethodPost
		default:
			return errors.Newf("unknown method %q (expected auto, put or post)", methodFlag)
		}

		count, err := definitions.Write(inDir, outFile, method)
		if err != nil {
			return err
		}

		pterm.Success.Printf("Wrote %d definition(s) to %s\n", count, outFile)
		return nil
	},
}

func init() {
	DefinitionsCmd.Flags().String("in", "fhir-definitions", "Directory containing definition JSON files")
	DefinitionsCmd.Flags().String("out", "output/definitions_bundle.json", "Output path for the transaction bundle")
	DefinitionsCmd.Flags().String("method", "auto", "Request method per entry: auto, put or post")
}
