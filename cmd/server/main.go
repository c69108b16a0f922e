package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// main wires the cobra commands. Business logic lives in internal/identity.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "digitalidentity",
		Short:         "Digital identity service",
		Long:          "HTTP service storing one digital identity per customer and publishing change notifications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newPurgeCommand())
	cmd.AddCommand(newSeedCommand())

	return cmd
}
