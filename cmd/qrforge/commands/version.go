package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/synthfhir/qrforge/version"
)

// VersionCmd prints build information
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		pterm.Println(version.Get().String())
	},
}
