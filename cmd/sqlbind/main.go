// Command sqlbind compiles and runs SQL templates from the shell. Records
// are declared with repeatable --record flags, ad-hoc bindings with --set,
// and the database connection comes from the environment (optionally
// loaded from an env file).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sqlbind",
		Short: "SQL template compiler and binding engine",
		Long: "sqlbind compiles SQL templates containing :NAME input tokens and\n" +
			";NAME output tokens against declared records, and can execute the\n" +
			"compiled statement against Postgres.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newCompileCmd())
	rootCmd.AddCommand(newRunCmd())
	return rootCmd
}
