package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/cqlforge/cql2elm/internal/cli/config"
	"github.com/cqlforge/cql2elm/internal/diagnostics"
	"github.com/cqlforge/cql2elm/internal/engine"
	"github.com/cqlforge/cql2elm/internal/resolver"
)

// watchDebounce is the quiet period after a file event before re-running.
const watchDebounce = 200 * time.Millisecond

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a CQL library to ELM",
		Long: `Translate a CQL source file into serialized ELM.

Dependent libraries referenced by include statements are resolved from the
library path, which defaults to the input file's directory. Any engine
diagnostic fails the run; partial output is never written.`,
		Example: `  # Basic XML output
  cql2elm translate --input MainLibrary.cql

  # JSON output with annotations and locators
  cql2elm translate --input main.cql --format json --output main.json

  # Verbose mode with detailed errors
  cql2elm translate --input test.cql --verbose --detailed-errors=true`,
		RunE: runTranslate,
	}

	cmd.Flags().StringP("input", "i", "", "Input CQL file (required)")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath, "Output ELM file")
	cmd.Flags().StringP("format", "f", config.DefaultFormat, "Output format: xml or json")
	cmd.Flags().String("library-path", "", "Dependency search directory (default: input file's directory)")
	cmd.Flags().String("engine", "", "Engine binding to use (default: highest-priority available)")
	cmd.Flags().Bool("watch", false, "Re-run translation when the input or its libraries change")

	cmd.Flags().Bool("date-range-optimization", false, "Enable date range optimization")
	cmd.Flags().Bool("annotations", true, "Include source annotations")
	cmd.Flags().Bool("locators", true, "Include source locators")
	cmd.Flags().Bool("result-types", false, "Include inferred result types")
	cmd.Flags().Bool("detailed-errors", false, "Enable detailed errors")
	cmd.Flags().String("signatures", config.DefaultSignatures, "Signature level: None, Differing, Overloads or All")
	cmd.Flags().Bool("disable-list-traversal", false, "Disable implicit list traversal")
	cmd.Flags().Bool("disable-list-demotion", false, "Disable list demotion")
	cmd.Flags().Bool("disable-list-promotion", false, "Disable list promotion")
	cmd.Flags().Bool("enable-interval-demotion", false, "Enable interval demotion")
	cmd.Flags().Bool("enable-interval-promotion", false, "Enable interval promotion")
	cmd.Flags().Bool("disable-method-invocation", false, "Disable method-style invocation")
	cmd.Flags().Bool("require-from-keyword", false, "Require the from keyword in queries")
	cmd.Flags().Bool("strict", false, "Strict mode")
	cmd.Flags().Bool("debug", false, "Engine debug mode")
	cmd.Flags().Bool("validate-units", false, "Validate UCUM units")

	return cmd
}

func runTranslate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	// Missing input prints usage and performs no translation.
	if cfg.InputPath == "" {
		return cmd.Help()
	}

	out := cmd.OutOrStdout()
	logger := config.GetLogger(cmd.Context())

	input, err := filepath.Abs(cfg.InputPath)
	if err != nil {
		input = cfg.InputPath
	}
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("CQL file not found: %s", input)
	}

	libraryPath := cfg.LibraryPath
	if libraryPath == "" {
		libraryPath = filepath.Dir(input)
	}

	format, err := engine.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintf(out, "Input file: %s\n", input)
		fmt.Fprintf(out, "Output file: %s\n", cfg.OutputPath)
		fmt.Fprintf(out, "Output format: %s\n", strings.ToUpper(cfg.Format))
		fmt.Fprintf(out, "Library path: %s\n", libraryPath)
		fmt.Fprintf(out, "Annotations: %t\n", cfg.Compiler.Annotations)
		fmt.Fprintf(out, "Locators: %t\n", cfg.Compiler.Locators)
		fmt.Fprintf(out, "Detailed errors: %t\n", cfg.Compiler.DetailedErrors)
		if cfg.ConfigFileUsed != "" {
			fmt.Fprintf(out, "Config file: %s\n", cfg.ConfigFileUsed)
		}
	}

	runCfg := engine.Config{
		InputPath:   input,
		OutputPath:  cfg.OutputPath,
		LibraryPath: libraryPath,
		Binding:     cfg.Engine,
		Format:      format,
		Options:     cfg.CompilerRecord(),
		Logger:      logger,
	}

	run := func() error {
		fmt.Fprintln(out, "Translating CQL to ELM...")
		result, err := engine.Translate(runCfg)
		if err != nil {
			reportRunError(cmd.ErrOrStderr(), err, runCfg, cfg.Verbose)
			return err
		}

		fmt.Fprintln(out, "Translation successful!")
		fmt.Fprintf(out, "Input: %s\n", result.InputPath)
		fmt.Fprintf(out, "Output: %s\n", result.OutputPath)
		fmt.Fprintf(out, "Format: %s\n", strings.ToUpper(string(result.Format)))
		fmt.Fprintf(out, "Generated %d bytes of ELM %s\n", result.Bytes, string(result.Format))
		if cfg.Verbose {
			fmt.Fprintf(out, "Run %s: binding=%s strategy=%s in %s\n",
				result.RunID, result.Binding, result.Strategy, result.Duration.Round(time.Millisecond))
		}
		return nil
	}

	if !cfg.Watch {
		return run()
	}
	return watchAndRun(cmd, run, input, libraryPath)
}

// reportRunError renders compilation diagnostics through the aggregator;
// other run-level errors are left for the caller to surface.
func reportRunError(w io.Writer, err error, runCfg engine.Config, verbose bool) {
	var diagErr *diagnostics.Error
	if !errors.As(err, &diagErr) {
		return
	}
	if verbose {
		libs := resolver.NewDirectorySource(runCfg.LibraryPath, runCfg.Logger).ListLibraries()
		diagnostics.WriteVerbose(w, diagErr.Messages, diagnostics.CollectContext(runCfg.InputPath, libs))
		return
	}
	diagnostics.WriteShort(w, diagErr.Messages)
}

// watchAndRun re-runs the translation whenever the input or a sibling
// library changes. Failed runs keep the watch alive; only watcher setup
// errors end it.
func watchAndRun(cmd *cobra.Command, run func() error, input, libraryPath string) error {
	// First run happens immediately; its failure is reported but does not
	// end the watch.
	if err := run(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(libraryPath); err != nil {
		return fmt.Errorf("watching %s: %w", libraryPath, err)
	}
	if dir := filepath.Dir(input); dir != libraryPath {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes...\n", libraryPath)

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 &&
				strings.HasSuffix(ev.Name, resolver.Extension) {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watch error: %v\n", err)
		case <-debounce.C:
			if err := run(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
		}
	}
}
