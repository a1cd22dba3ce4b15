package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cstyle/internal/checkcache"
	"cstyle/internal/config"
	"cstyle/internal/diagfmt"
	"cstyle/internal/driver"
	"cstyle/internal/observ"
	"cstyle/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.c|file.h|directory>",
	Short: "Check C sources against the coding style",
	Long:  `Check a single C source file, a header, or every supported file under a directory. Findings are printed but never change the exit status; only setup failures do.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (stream|pretty|json); empty uses the config default")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=config, then auto)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("cache", false, "enable the persistent result cache")
	checkCmd.Flags().Bool("no-config", false, "ignore any cstyle.toml and use built-in defaults")
}

// checkSettings is the merged view of config file and flags. Flags win.
type checkSettings struct {
	format   string
	pathMode diagfmt.PathMode
	maxDiags int
	jobs     int
	useCache bool
	color    bool
	quiet    bool
	timings  bool
}

func resolveSettings(cmd *cobra.Command, startDir string) (checkSettings, error) {
	var s checkSettings

	noConfig, err := cmd.Flags().GetBool("no-config")
	if err != nil {
		return s, err
	}
	cfg := config.Default()
	if !noConfig {
		cfg, _, err = config.Discover(startDir)
		if err != nil {
			return s, err
		}
	}

	s.format = cfg.Output.Format
	if f, err := cmd.Flags().GetString("format"); err != nil {
		return s, err
	} else if f != "" {
		switch f {
		case "stream", "pretty", "json":
			s.format = f
		default:
			return s, fmt.Errorf("unknown format: %s", f)
		}
	}

	switch cfg.Output.Paths {
	case "relative":
		s.pathMode = diagfmt.PathModeRelative
	case "basename":
		s.pathMode = diagfmt.PathModeBasename
	case "auto":
		s.pathMode = diagfmt.PathModeAuto
	default:
		s.pathMode = diagfmt.PathModeAbsolute
	}
	if fullPath, err := cmd.Flags().GetBool("fullpath"); err != nil {
		return s, err
	} else if fullPath {
		s.pathMode = diagfmt.PathModeAbsolute
	}

	s.maxDiags = cfg.Output.MaxDiagnostics
	if max, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return s, err
	} else if max > 0 {
		s.maxDiags = max
	}

	s.jobs = cfg.Check.Jobs
	if jobs, err := cmd.Flags().GetInt("jobs"); err != nil {
		return s, err
	} else if jobs > 0 {
		s.jobs = jobs
	}

	cacheFlag, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return s, err
	}
	s.useCache = cacheFlag || cfg.Check.Cache

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return s, err
	}
	switch colorFlag {
	case "on":
		s.color = true
	case "off":
		s.color = false
	default:
		switch cfg.Output.Color {
		case "always":
			s.color = true
		case "never":
			s.color = false
		default:
			s.color = isTerminal(os.Stdout)
		}
	}

	if s.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return s, err
	}
	if s.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return s, err
	}
	return s, nil
}

// runCheck executes the check command for a file or directory argument.
// Setup failures (bad path, unsupported suffix, broken pattern set) return
// an error and a non-zero exit; style findings are output, not errors.
func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	st, err := os.Stat(target)
	if err != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("failed to stat path: %w", err)
	}

	startDir := target
	if !st.IsDir() {
		startDir = filepath.Dir(target)
	}

	settings, err := resolveSettings(cmd, startDir)
	if err != nil {
		return err
	}

	var cache *checkcache.Cache
	if settings.useCache {
		cache, err = checkcache.Open("cstyle")
		if err != nil {
			cmd.SilenceUsage = true
			return fmt.Errorf("failed to open result cache: %w", err)
		}
	}

	opts := driver.Options{
		MaxDiagnostics: settings.maxDiags,
		Jobs:           settings.jobs,
		Cache:          cache,
	}

	// Flag parsing is done; anything from here on is a run failure, not
	// a usage mistake.
	cmd.SilenceUsage = true

	if st.IsDir() {
		return runCheckDir(cmd, target, opts, settings)
	}
	return runCheckFile(cmd, target, opts, settings)
}

func runCheckFile(cmd *cobra.Command, path string, opts driver.Options, settings checkSettings) error {
	var timer *observ.Timer
	if settings.timings {
		timer = observ.NewTimer()
		opts.Timer = timer
	}

	fileSet := source.NewFileSetWithBase(filepath.Dir(path))
	result, err := driver.CheckFile(cmd.Context(), fileSet, path, opts)
	if err != nil {
		return err
	}

	if err := renderResults(cmd, fileSet, []driver.FileResult{result}, settings); err != nil {
		return err
	}

	if timer != nil && !settings.quiet {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	return nil
}

func runCheckDir(cmd *cobra.Command, dir string, opts driver.Options, settings checkSettings) error {
	fileSet, results, err := driver.CheckDir(cmd.Context(), dir, opts)
	if err != nil {
		return err
	}
	return renderResults(cmd, fileSet, results, settings)
}

func renderResults(cmd *cobra.Command, fileSet *source.FileSet, results []driver.FileResult, settings checkSettings) error {
	out := cmd.OutOrStdout()

	switch settings.format {
	case "stream":
		for _, res := range results {
			if res.Failed {
				// Load failures have no real position; lines are 1-based.
				for _, d := range res.Bag.Items() {
					fmt.Fprintf(out, "%s:1:0: [%s] %s\n", res.Path, d.Severity, d.Message)
				}
				continue
			}
			for _, d := range res.Bag.Items() {
				fmt.Fprintln(out, diagfmt.FormatLine(fileSet, d.Primary, d.Severity, d.Message, settings.pathMode))
			}
		}

	case "pretty":
		printed := 0
		for _, res := range results {
			if res.Bag.Len() == 0 {
				continue
			}
			if printed > 0 {
				fmt.Fprintln(out)
			}
			printed++
			if !settings.quiet {
				fmt.Fprintf(out, "== %s ==\n", displayPath(fileSet, res, settings.pathMode))
			}
			if res.Failed {
				for _, d := range res.Bag.Items() {
					fmt.Fprintf(out, "%s: %s\n", d.Severity, d.Message)
				}
				continue
			}
			diagfmt.Pretty(out, res.Bag, fileSet, diagfmt.PrettyOpts{
				Color:    settings.color,
				PathMode: settings.pathMode,
			})
		}

	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, res := range results {
			key := displayPath(fileSet, res, settings.pathMode)
			if res.Failed {
				// Spans of load failures cannot be resolved against the
				// file set; report them without positions.
				doc := diagfmt.DiagnosticsOutput{Count: res.Bag.Len()}
				for _, d := range res.Bag.Items() {
					doc.Diagnostics = append(doc.Diagnostics, diagfmt.DiagnosticJSON{
						Severity: d.Severity.String(),
						Code:     d.Code.ID(),
						Path:     key,
						Message:  d.Message,
					})
				}
				output[key] = doc
				continue
			}
			output[key] = diagfmt.BuildDiagnosticsOutput(res.Bag, fileSet, diagfmt.JSONOpts{
				PathMode: settings.pathMode,
			})
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}

	default:
		return fmt.Errorf("unknown format: %s", settings.format)
	}
	return nil
}

func displayPath(fileSet *source.FileSet, res driver.FileResult, mode diagfmt.PathMode) string {
	if res.Failed {
		if mode == diagfmt.PathModeAbsolute {
			if abs, err := source.AbsolutePath(res.Path); err == nil {
				return abs
			}
		}
		return res.Path
	}
	file := fileSet.Get(res.FileID)
	return file.FormatPath(pathModeName(mode), fileSet.BaseDir())
}

func pathModeName(mode diagfmt.PathMode) string {
	switch mode {
	case diagfmt.PathModeRelative:
		return "relative"
	case diagfmt.PathModeBasename:
		return "basename"
	case diagfmt.PathModeAuto:
		return "auto"
	default:
		return "absolute"
	}
}
