package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	algoerrors "github.com/algoscript/algoscript/internal/errors"
	"github.com/algoscript/algoscript/internal/host"
	"github.com/algoscript/algoscript/pkg/algoscript"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seedFlag   int64
	maxSteps   int
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run an algoscript program",
	Long: `Execute an algoscript source file.

Examples:
  # Run a script file
  algoscript run script.algo

  # Run with a fixed PRNG seed and a step budget
  algoscript run --config run.yaml script.algo`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file (seed, searchPath, maxSteps)")
	runCmd.Flags().Int64Var(&seedFlag, "seed", 0, "PRNG seed for nombreAleatoire (overrides config)")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "abort execution after this many suspension points (0 = unbounded)")
}

func runScript(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	filename := args[0]

	cfg, err := loadRunConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	if cmd.Flags().Changed("seed") {
		seed = seedFlag
	}
	steps := cfg.MaxSteps
	if cmd.Flags().Changed("max-steps") {
		steps = maxSteps
	}
	searchPath := append([]string{filepath.Dir(filename)}, cfg.SearchPath...)

	if verbose {
		fmt.Fprintf(os.Stderr, "running %s (seed=%d, maxSteps=%d, searchPath=%v)\n", filename, seed, steps, searchPath)
	}

	h := &searchPathHost{Std: host.NewStd(), dirs: searchPath}
	engine := algoscript.New(algoscript.WithHost(h), algoscript.WithSeed(seed), algoscript.WithMaxSteps(steps))

	if err := engine.RunContext(cmd.Context(), filename, string(src)); err != nil {
		printRunError(err)
		return fmt.Errorf("execution failed")
	}
	return nil
}

// printRunError renders a lex/parse or runtime error using the color
// formatting both algoscript error types carry.
func printRunError(err error) {
	switch e := err.(type) {
	case *algoerrors.Error:
		fmt.Fprint(os.Stderr, e.Format(true))
	case *algoerrors.RuntimeError:
		fmt.Fprint(os.Stderr, e.Format(true))
	default:
		fmt.Fprintln(os.Stderr, err)
	}
}

// searchPathHost resolves the run built-in's file argument against a
// list of directories before falling back to the plain path.
type searchPathHost struct {
	*host.Std
	dirs []string
}

func (h *searchPathHost) ReadFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		return h.Std.ReadFile(path)
	}
	var firstErr error
	for _, dir := range h.dirs {
		text, err := h.Std.ReadFile(filepath.Join(dir, path))
		if err == nil {
			return text, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if text, err := h.Std.ReadFile(path); err == nil {
		return text, nil
	}
	return "", firstErr
}
