package cmd

import (
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/maherraissi/MedFlow/cmd/http"
	systemcmd "github.com/maherraissi/MedFlow/cmd/system"
)

var rootCmd = &cobra.Command{
	Use:   "medflow",
	Short: "MedFlow clinic management platform",
	Long: `MedFlow is a multi-tenant clinic management backend: patients,
appointments, consultations, prescriptions, invoicing and payments,
with a staff access model and a patient self-service portal.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
