// Package cli provides the command-line interface for dirreg.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dirreg",
	Short: "Device identity registration client for the directory service",
	Long: `Device identity registration client for the directory service.

dirreg bootstraps a device's cryptographic identity with the directory,
producing the per-service certificates downstream messaging protocols use
to prove identity ownership. Use it to generate identity key pairs and to
submit signed registration requests.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(versionCmd)
}
