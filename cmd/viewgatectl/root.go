package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serverURL string
	outputFmt string
	tenantID  string
)

var rootCmd = &cobra.Command{
	Use:   "viewgatectl",
	Short: "CLI for the viewgate server",
	Long: `viewgatectl administers a viewgate deployment: gate configs, view
statistics and area listings, per tenant.

The server URL and tenant can also come from the VIEWGATE_SERVER and
VIEWGATE_TENANT environment variables; flags take precedence.`,
}

func init() {
	viper.SetEnvPrefix("VIEWGATE")
	viper.AutomaticEnv()
	viper.SetDefault("server", "http://localhost:8080")

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Viewgate server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVarP(&tenantID, "tenant", "t", "", "Tenant for admin operations")

	rootCmd.AddCommand(configsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(areasCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(healthCmd)
}

// resolvedServerURL returns the effective server URL.
// Priority: --server flag > VIEWGATE_SERVER env var > localhost default.
func resolvedServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	return viper.GetString("server")
}

// resolvedTenant returns the effective tenant.
// Priority: --tenant flag > VIEWGATE_TENANT env var.
func resolvedTenant() string {
	if tenantID != "" {
		return tenantID
	}
	return viper.GetString("tenant")
}
