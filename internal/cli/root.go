package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	envFile string
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "erp",
	Short: "ERP and B2B marketplace backend",
	Long: `erp serves the REST API for products, customers, orders, invoices,
marketplace listings and the dashboard. Storage is in memory by default or a
SQL database selected with STORAGE and DATABASE_URL.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (default ./erp.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
