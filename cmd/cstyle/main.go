package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cstyle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cstyle",
	Short: "C coding style checker",
	Long:  `cstyle verifies C sources against the project coding style: indentation, brace layout and token spacing`,
}

// main wires the subcommands and persistent flags, then executes the root
// command. Command execution failures exit with status 1; style findings
// by themselves never do.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(toolsCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0=use config)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
