package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sufield/dirreg/internal/core/services"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dirreg version and protocol version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dirreg %s (protocol version %s)\n", Version, services.ProtocolVersion)
	},
}
