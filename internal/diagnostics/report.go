package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ShortReportCap bounds the number of distinct messages a short report
// shows before collapsing the rest into a remainder count.
const ShortReportCap = 10

// WriteShort renders the first ShortReportCap distinct raw messages,
// numbered, followed by a remainder count when more were suppressed.
func WriteShort(w io.Writer, msgs []string) {
	distinct := dedupe(msgs)
	fmt.Fprintf(w, "Translation failed due to %d errors:\n", len(msgs))
	for i, msg := range distinct {
		if i == ShortReportCap {
			fmt.Fprintf(w, "  ... and %d more errors\n", len(distinct)-ShortReportCap)
			break
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, msg)
	}
}

// Context carries the surrounding facts a verbose report includes so a
// reader can judge whether a failure is a missing dependency, a missing
// model, or a bad input.
type Context struct {
	InputPath  string
	InputSize  int64
	Libraries  []string // sibling .cql library names on the search path
	Statements []string // library/using/include statements from the input
}

// CollectContext gathers verbose report context. Collection failures
// degrade to empty fields; the report must never fail because its context
// could not be gathered.
func CollectContext(inputPath string, libraries []string) Context {
	ctx := Context{InputPath: inputPath, Libraries: libraries}
	if info, err := os.Stat(inputPath); err == nil {
		ctx.InputSize = info.Size()
	}
	if f, err := os.Open(inputPath); err == nil {
		defer f.Close()
		ctx.Statements = scanStatements(f)
	}
	return ctx
}

var statementPattern = regexp.MustCompile(`^\s*(library|using|include)\b.*$`)

// scanStatements extracts library/using/include statements by simple
// pattern matching; it does not parse CQL.
func scanStatements(r io.Reader) []string {
	var stmts []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := statementPattern.FindString(scanner.Text()); line != "" {
			stmts = append(stmts, strings.TrimSpace(line))
		}
	}
	return stmts
}

// WriteVerbose renders the full grouped table plus contextual diagnostics.
func WriteVerbose(w io.Writer, msgs []string, ctx Context) {
	fmt.Fprintf(w, "Translation failed due to %d errors.\n\n", len(msgs))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Error", "Count", "Example"})
	for i, g := range Aggregate(msgs) {
		t.AppendRow(table.Row{i + 1, g.Label, g.Count, g.Sample})
	}
	t.Render()

	fmt.Fprintf(w, "\nInput file: %s (%d bytes)\n", ctx.InputPath, ctx.InputSize)
	if len(ctx.Libraries) > 0 {
		fmt.Fprintf(w, "Libraries on search path: %s\n", strings.Join(ctx.Libraries, ", "))
	} else {
		fmt.Fprintln(w, "Libraries on search path: none")
	}
	for _, stmt := range ctx.Statements {
		fmt.Fprintf(w, "  %s\n", stmt)
	}
}

func dedupe(msgs []string) []string {
	seen := make(map[string]struct{}, len(msgs))
	var distinct []string
	for _, msg := range msgs {
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		distinct = append(distinct, msg)
	}
	return distinct
}
