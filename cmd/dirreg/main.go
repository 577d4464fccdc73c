// dirreg is the command-line interface for the directory registration
// library.
//
// It provides utilities for bootstrapping a device identity with the
// directory service:
//   - Generating identity key pairs with the accepted key shapes
//   - Submitting signed registration requests
//
// Usage:
//
//	dirreg keygen [flags]
//	dirreg register [flags]
//	dirreg --help
package main

import (
	"fmt"
	"os"

	"github.com/sufield/dirreg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
