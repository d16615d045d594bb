// Package cli provides the command-line interface for cql2elm.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cqlforge/cql2elm/internal/cli/commands"
	"github.com/cqlforge/cql2elm/internal/cli/config"

	// Registered engine bindings.
	_ "github.com/cqlforge/cql2elm/internal/engine/embedded"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cql2elm",
		Short: "cql2elm - CQL to ELM translator",
		Long: `cql2elm translates Clinical Quality Language (CQL) libraries into the
Expression Logical Model (ELM), binding adaptively to whichever translation
engine version is available.

Dependent libraries are resolved from a search path next to the input file;
translator options the engine version does not expose are skipped rather
than failing the run.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			ctx := context.WithValue(cmd.Context(), config.LoggerKey(), newLogger(verbose))
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
CQL to ELM translator
`)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cql2elm.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(commands.NewTranslateCommand())
	rootCmd.AddCommand(commands.NewLibsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(newCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLogger builds the run logger: debug text on stderr when verbose,
// discard otherwise. Capability and strategy skips surface only here.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// newCompletionCommand creates the shell completion command.
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for cql2elm.

To load completions:

Bash:
  $ source <(cql2elm completion bash)

Zsh:
  $ cql2elm completion zsh > "${fpath[1]}/_cql2elm"

Fish:
  $ cql2elm completion fish | source

PowerShell:
  PS> cql2elm completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
