// Package embedded provides the bundled reference CQL-to-ELM engine
// bindings. Two versions are registered: "embedded", the current shape
// with an options object and file/text entry points, and
// "embedded-legacy", an older shape exposing only the basic file entry
// point. The legacy binding exists so the invocation strategy fallback is
// exercised against a real engine, not only in tests.
package embedded

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cqlforge/cql2elm/internal/engineapi"
)

func init() {
	engineapi.RegisterBinding("embedded", 10, func(logger *slog.Logger) engineapi.Binding {
		return &binding{name: "embedded", logger: logger}
	})
	engineapi.RegisterBinding("embedded-legacy", 90, func(logger *slog.Logger) engineapi.Binding {
		return &binding{name: "embedded-legacy", legacy: true, logger: logger}
	})
}

type binding struct {
	name   string
	legacy bool
	logger *slog.Logger
}

func (b *binding) Name() string { return b.name }

func (b *binding) Available() error { return nil }

func (b *binding) NewSession(logger *slog.Logger) (engineapi.Session, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	mgr := &libraryManager{logger: logger, compiling: make(map[string]bool)}
	s := &session{libs: mgr}
	if b.legacy {
		s.compiler = &legacyCompiler{libs: mgr}
	} else {
		s.compiler = &compiler{libs: mgr}
	}
	return s, nil
}

type session struct {
	libs     *libraryManager
	compiler any
}

func (s *session) SourceLoader() engineapi.SourceLoader { return s.libs }

func (s *session) Compiler() any { return s.compiler }

// libraryManager tracks registered source providers and resolves include
// dependencies during compilation. Dependency compilation happens on the
// calling goroutine and may re-enter the providers for transitive
// includes; the compiling set guards against include cycles.
type libraryManager struct {
	logger    *slog.Logger
	providers []engineapi.SourceProvider
	compiling map[string]bool
}

func (m *libraryManager) RegisterProvider(p engineapi.SourceProvider) {
	m.providers = append(m.providers, p)
}

// libraryRef is the identifier handed to source providers. It exposes an
// ID accessor, exercising the providers' non-string fallback tier.
type libraryRef struct {
	id      string
	version string
}

func (r libraryRef) ID() string      { return r.id }
func (r libraryRef) Version() string { return r.version }

func (r libraryRef) String() string {
	if r.version == "" {
		return r.id
	}
	return r.id + " version '" + r.version + "'"
}

// source queries the registered providers in order.
func (m *libraryManager) source(ref libraryRef) ([]byte, bool) {
	for _, p := range m.providers {
		if content, ok := p.LibrarySource(ref, engineapi.FormatCQL); ok {
			return content, true
		}
	}
	return nil, false
}

// resolveIncludes compiles every include of lib, appending dependency
// diagnostics to the parent's list.
func (m *libraryManager) resolveIncludes(lib *library, opts *TranslatorOptions) []string {
	var diags []string
	for _, inc := range lib.Includes {
		ref := libraryRef{id: inc.Path, version: inc.Version}
		if m.compiling[inc.Path] {
			diags = append(diags, fmt.Sprintf("Circular include of library %s", ref))
			continue
		}
		content, ok := m.source(ref)
		if !ok {
			diags = append(diags, fmt.Sprintf("Could not load source for library %s", ref))
			continue
		}

		m.compiling[inc.Path] = true
		_, depDiags := m.compileSource(string(content), opts)
		delete(m.compiling, inc.Path)
		diags = append(diags, depDiags...)
	}
	return diags
}

// compileSource parses source text and resolves its models and includes.
func (m *libraryManager) compileSource(source string, opts *TranslatorOptions) (*library, []string) {
	strict := opts != nil && opts.strict
	lib, diags := parseLibrary(source, strict)

	for _, u := range lib.Usings {
		if u.Model == "System" {
			continue
		}
		if _, ok := knownModels[u.Model]; !ok {
			diags = append(diags, fmt.Sprintf("Could not resolve model with namespace %s and version %s", u.Model, u.Version))
		}
	}

	diags = append(diags, m.resolveIncludes(lib, opts)...)
	m.logger.Debug("compiled library", "library", lib.Name, "diagnostics", len(diags))
	return lib, diags
}

// compiler is the current engine shape: options-aware, file and text
// entry points.
type compiler struct {
	libs *libraryManager
}

func (c *compiler) NewTranslatorOptions() any { return defaultTranslatorOptions() }

func (c *compiler) CompileFileWithOptions(path string, opts any) (engineapi.Translator, error) {
	to, ok := opts.(*TranslatorOptions)
	if !ok {
		return nil, fmt.Errorf("unsupported options object %T", opts)
	}
	return compileFile(c.libs, path, to)
}

func (c *compiler) CompileFile(path string) (engineapi.Translator, error) {
	return compileFile(c.libs, path, defaultTranslatorOptions())
}

func (c *compiler) CompileText(source string) (engineapi.Translator, error) {
	lib, diags := c.libs.compileSource(source, defaultTranslatorOptions())
	return &translator{lib: lib, diags: diags, opts: defaultTranslatorOptions()}, nil
}

// legacyCompiler is the older engine shape: the basic file entry point
// only, no options object.
type legacyCompiler struct {
	libs *libraryManager
}

func (c *legacyCompiler) CompileFile(path string) (engineapi.Translator, error) {
	return compileFile(c.libs, path, defaultTranslatorOptions())
}

func compileFile(libs *libraryManager, path string, opts *TranslatorOptions) (engineapi.Translator, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading CQL source: %w", err)
	}

	// Guard the root library against self-include cycles.
	self := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	libs.compiling[self] = true
	lib, diags := libs.compileSource(string(content), opts)
	delete(libs.compiling, self)

	return &translator{lib: lib, diags: diags, opts: opts}, nil
}

// translator is one compilation result. Serializers live in elm.go.
type translator struct {
	lib   *library
	diags []string
	opts  *TranslatorOptions
}

func (t *translator) Diagnostics() []string { return t.diags }
