// Command lendctl runs operator tasks against the lending database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lendctl",
		Short:         "Operator tasks for the lending backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(disburseCmd())
	root.AddCommand(tokenCmd())
	return root
}
