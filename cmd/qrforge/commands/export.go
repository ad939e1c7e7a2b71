package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/synthfhir/qrforge/config"
	"github.com/synthfhir/qrforge/errors"
	"github.com/synthfhir/qrforge/export"
	"github.com/synthfhir/qrforge/logger"
)

// ExportHeaderCmd pulls the QuestionnaireResponse header table out of a HAPI database
var ExportHeaderCmd = &cobra.Command{
	Use:   "export-header",
	Short: "Export the QuestionnaireResponse header table from a HAPI JPA database",
	Long: `Query a HAPI FHIR JPA server's PostgreSQL database for stored
QuestionnaireResponses and write their header columns (resource id,
patient, encounter, author, source, authored) as CSV.

Connection settings come from configuration (export.* keys) or the
DB_HOST, DB_PORT, DB_NAME, DB_USER and DB_PASS environment variables.

Example:
  qrforge export-header --out input/QuestionnaireResponse-Header.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		outFile, _ := cmd.Flags().GetString("out")
		if outFile == "" {
			outFile = cfg.Export.OutputFile
		}

		exporter, err := export.Open(cfg.Export)
		if err != nil {
			return errors.Wrap(err, "database connection failed")
		}
		defer exporter.Close()

		if dir := filepath.Dir(outFile); dir != "." {
			if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
				return errors.Wrapf(err, "failed to create %s", dir)
			}
		}
		file, err := os.Create(outFile)
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", outFile)
		}
		defer file.Close()

		rows, err := exporter.WriteHeaderCSV(cmd.Context(), file)
		if err != nil {
			return err
		}

		logger.Infow("Header export complete", "rows", rows, "file", outFile)
		pterm.Success.Printf("Exported %d header row(s) to %s\n", rows, outFile)
		return nil
	},
}

func init() {
	ExportHeaderCmd.Flags().String("out", "", "Output CSV path (defaults to export.output_file)")
}
