// clnpctl is a thin command-line client for a clnp server's admin API:
// aggregate stats, paginated session listings, and single-session lookup.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	adminToken string
)

var rootCmd = &cobra.Command{
	Use:   "clnpctl",
	Short: "Admin client for a clnp liveness verification server",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:8080", "base URL of the clnp server")
	rootCmd.PersistentFlags().StringVar(&adminToken, "token", os.Getenv("CLNP_ADMIN_TOKEN"), "admin bearer token (default: $CLNP_ADMIN_TOKEN)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(sessionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
