package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"cstyle/internal/config"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Run the external helper tools used alongside the style check",
}

var spellCmd = &cobra.Command{
	Use:   "spell [args...]",
	Short: "Run the spell checker over the given paths",
	Long:  `Pass the arguments through to the configured spell checker binary (codespell by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, func(t config.Tools) string { return t.Spell }, args)
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode [args...]",
	Short: "Run the encoding converter over the given paths",
	Long:  `Pass the arguments through to the configured encoding converter binary (cvt2utf by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd, func(t config.Tools) string { return t.Encode }, args)
	},
}

func init() {
	toolsCmd.AddCommand(spellCmd)
	toolsCmd.AddCommand(encodeCmd)
}

// runTool execs an external helper with stdio passed through, so its
// interactive output and exit status behave as if it were run directly.
func runTool(cmd *cobra.Command, pick func(config.Tools) string, args []string) error {
	cfg, _, err := config.Discover(".")
	if err != nil {
		return err
	}
	name := pick(cfg.Tools)
	if name == "" {
		return fmt.Errorf("no binary configured for this tool")
	}

	cmd.SilenceUsage = true

	tool := exec.CommandContext(cmd.Context(), name, args...)
	tool.Stdin = os.Stdin
	tool.Stdout = cmd.OutOrStdout()
	tool.Stderr = cmd.ErrOrStderr()

	if err := tool.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmd.SilenceErrors = true
			return fmt.Errorf("%s exited with status %d", name, exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", name, err)
	}
	return nil
}
