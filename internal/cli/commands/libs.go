package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cqlforge/cql2elm/internal/cli/config"
	"github.com/cqlforge/cql2elm/internal/resolver"
)

var libraryDeclRE = regexp.MustCompile(`(?m)^\s*library\s+"?([A-Za-z_][\w.]*)"?(?:\s+version\s+'([^']*)')?`)

// NewLibsCommand creates the libs command, which lists the CQL libraries
// resolvable on a dependency search path.
func NewLibsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "libs [directory]",
		Short: "List CQL libraries on a dependency search path",
		Long: `List the .cql libraries a translation run could resolve from the given
directory (default: the current directory), with the library name and
version declared in each file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runLibs,
	}
	return cmd
}

func runLibs(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("library path not found: %s", dir)
	}

	src := resolver.NewDirectorySource(dir, config.GetLogger(cmd.Context()))
	names := src.ListLibraries()
	if len(names) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No CQL libraries found in %s\n", dir)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"File", "Library", "Version", "Size"})
	for _, name := range names {
		path := filepath.Join(dir, name+resolver.Extension)
		declared, version := "-", "-"
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		if content, err := os.ReadFile(path); err == nil {
			if m := libraryDeclRE.FindSubmatch(content); m != nil {
				declared = string(m[1])
				if len(m[2]) > 0 {
					version = string(m[2])
				}
			}
		}
		t.AppendRow(table.Row{name + resolver.Extension, declared, version, size})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "%d libraries in %s\n", len(names), dir)
	return nil
}
