// Package engine orchestrates one CQL-to-ELM translation run: it selects
// an engine binding, registers the library source resolver, obtains a
// translator through the invocation strategy selector, and writes the
// serialized result. All failure modes are converted at this boundary into
// a single error; nothing propagates uncaught to the process boundary.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cqlforge/cql2elm/internal/diagnostics"
	"github.com/cqlforge/cql2elm/internal/engineapi"
	"github.com/cqlforge/cql2elm/internal/options"
	"github.com/cqlforge/cql2elm/internal/probe"
	"github.com/cqlforge/cql2elm/internal/resolver"
)

// Format selects the serialized output form.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", string(FormatXML):
		return FormatXML, nil
	case string(FormatJSON):
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected xml or json)", name)
	}
}

// Config describes one translation run.
type Config struct {
	// InputPath is the CQL source file to translate.
	InputPath string

	// OutputPath receives the serialized result. The .xml extension is
	// rewritten to .json when JSON output is selected and the path still
	// carries the default extension.
	OutputPath string

	// LibraryPath is the dependency search directory. Empty means no
	// dependent libraries are resolvable.
	LibraryPath string

	// Binding names the engine binding to use; empty selects by priority.
	Binding string

	// Format selects XML (default) or JSON output.
	Format Format

	// Options is the compiler option record, read-only for the run.
	Options options.Record

	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// Result reports one successful run.
type Result struct {
	RunID      string
	InputPath  string
	OutputPath string
	Format     Format
	Binding    string
	Strategy   Strategy
	Bytes      int
	Duration   time.Duration
}

// Translate performs one run. Run-level failures come back as errors:
// *engineapi.UnknownBindingError, ErrStrategiesExhausted, or
// *diagnostics.Error when the engine reported compilation errors (output
// is never written in that case).
func Translate(cfg Config) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	start := time.Now()

	binding, err := engineapi.SelectBinding(cfg.Binding, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("selected engine binding", "binding", binding.Name())

	sess, err := binding.NewSession(logger)
	if err != nil {
		return nil, fmt.Errorf("constructing engine session: %w", err)
	}

	// The resolver is registered exactly once per run, before the first
	// compilation attempt. Registration itself is probed: an engine
	// without a usable loader degrades to compiling without dependencies.
	src := resolver.NewDirectorySource(cfg.LibraryPath, logger)
	if out := probe.Try("RegisterProvider", func() error {
		sess.SourceLoader().RegisterProvider(src)
		return nil
	}); out.Skipped() {
		logger.Debug("library source provider not registered", "reason", out.Err)
	}

	tr, strategy, err := selectTranslator(sess, cfg.InputPath, cfg.Options, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("translator obtained", "strategy", string(strategy))

	if msgs := tr.Diagnostics(); len(msgs) > 0 {
		return nil, &diagnostics.Error{Messages: msgs}
	}

	output, err := serialize(tr, cfg.Format)
	if err != nil {
		return nil, err
	}

	outputPath := fixExtension(cfg.OutputPath, cfg.Format)
	if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	return &Result{
		RunID:      uuid.NewString(),
		InputPath:  cfg.InputPath,
		OutputPath: outputPath,
		Format:     cfg.Format,
		Binding:    binding.Name(),
		Strategy:   strategy,
		Bytes:      len(output),
		Duration:   time.Since(start),
	}, nil
}

// serialize extracts the translator's output in the requested format. The
// serializers are capabilities: an engine that cannot produce the format
// is a run-level error, not a crash.
func serialize(tr engineapi.Translator, format Format) (string, error) {
	switch format {
	case FormatJSON:
		if s, ok := tr.(engineapi.JSONSerializer); ok {
			return s.ToJSON()
		}
	default:
		if s, ok := tr.(engineapi.XMLSerializer); ok {
			return s.ToXML()
		}
	}
	return "", fmt.Errorf("engine cannot serialize %s output", format)
}

// fixExtension rewrites the default .xml extension to .json when JSON
// output is selected. Any other output name is left alone.
func fixExtension(path string, format Format) string {
	if format == FormatJSON && strings.HasSuffix(path, ".xml") {
		return strings.TrimSuffix(path, ".xml") + ".json"
	}
	return path
}
