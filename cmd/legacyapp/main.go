package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title Legacy App Status API
// @version 1.0.0
// @description Deployment status and liveness endpoints

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
// @schemes http https

var rootCmd = &cobra.Command{
	Use:   "legacyapp",
	Short: "Legacy app status service",
	Long: `legacyapp serves the deployment status and health endpoints.
It also builds the Ansible inventory of EC2 hosts and checks running deployments.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newInventoryCmd())
}
