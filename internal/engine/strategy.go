package engine

import (
	"errors"
	"log/slog"
	"os"

	"github.com/cqlforge/cql2elm/internal/engineapi"
	"github.com/cqlforge/cql2elm/internal/options"
	"github.com/cqlforge/cql2elm/internal/probe"
)

// Strategy names the invocation path that produced a translator.
type Strategy string

const (
	// StrategyFileWithOptions compiles from the input path with a native
	// options object constructed by the engine.
	StrategyFileWithOptions Strategy = "file-with-options"

	// StrategyFile compiles from the input path with engine defaults.
	StrategyFile Strategy = "file"

	// StrategyText reads the input here and hands the engine raw source.
	StrategyText Strategy = "text"
)

// ErrStrategiesExhausted reports that no invocation path produced a
// translator.
var ErrStrategiesExhausted = errors.New("no supported invocation strategy: engine accepts neither file nor text compilation")

// selectTranslator tries the invocation strategies in fixed order and
// returns the first translator obtained. Strategies are attempted most
// capable first; a strategy whose entry point is absent or panics is
// skipped, and only when all three fail is the run over.
func selectTranslator(sess engineapi.Session, inputPath string, rec options.Record, logger *slog.Logger) (engineapi.Translator, Strategy, error) {
	comp := sess.Compiler()

	var tr engineapi.Translator

	if out := probe.Capability(comp, "NewTranslatorOptions", func(oc engineapi.OptionsConstructor) error {
		opts := oc.NewTranslatorOptions()
		for _, bind := range options.Bind(opts, rec) {
			if bind.Skipped() {
				logger.Debug("compiler option not applied", "option", bind.Name, "reason", bind.String())
			}
		}
		inner := probe.Capability(comp, string(StrategyFileWithOptions), func(c engineapi.OptionsFileCompiler) error {
			t, err := c.CompileFileWithOptions(inputPath, opts)
			if err != nil {
				return err
			}
			tr = t
			return nil
		})
		return inner.Err
	}); out.Applied {
		return tr, StrategyFileWithOptions, nil
	} else if out.Skipped() {
		logger.Debug("invocation strategy skipped", "strategy", string(StrategyFileWithOptions), "reason", out.Err)
	}

	if out := probe.Capability(comp, string(StrategyFile), func(c engineapi.FileCompiler) error {
		t, err := c.CompileFile(inputPath)
		if err != nil {
			return err
		}
		tr = t
		return nil
	}); out.Applied {
		return tr, StrategyFile, nil
	} else if out.Skipped() {
		logger.Debug("invocation strategy skipped", "strategy", string(StrategyFile), "reason", out.Err)
	}

	if out := probe.Capability(comp, string(StrategyText), func(c engineapi.TextCompiler) error {
		content, err := os.ReadFile(inputPath)
		if err != nil {
			return err
		}
		t, err := c.CompileText(string(content))
		if err != nil {
			return err
		}
		tr = t
		return nil
	}); out.Applied {
		return tr, StrategyText, nil
	} else if out.Skipped() {
		logger.Debug("invocation strategy skipped", "strategy", string(StrategyText), "reason", out.Err)
	}

	return nil, "", ErrStrategiesExhausted
}
