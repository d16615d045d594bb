// Package engineapi defines the capability-set contract between cql2elm
// and a CQL-to-ELM translation engine. Engine versions differ in which
// entry points and option setters they expose, so every optional surface
// is modeled as a narrow interface asserted at runtime rather than one
// monolithic engine interface pinned at build time.
package engineapi

// SourceFormat identifies the representation a source request asks for.
type SourceFormat string

const (
	// FormatCQL requests raw CQL source text.
	FormatCQL SourceFormat = "CQL"
	// FormatELMXML requests a precompiled ELM XML form.
	FormatELMXML SourceFormat = "XML"
	// FormatELMJSON requests a precompiled ELM JSON form.
	FormatELMJSON SourceFormat = "JSON"
)

// SourceProvider supplies dependent library source to the engine.
//
// The reference is opaque: engines hand back plain strings, identifier
// structs, or values with only a textual form. Providers return the source
// bytes and true, or nil and false when the library cannot be supplied in
// the requested format. Calls are synchronous and may be re-entrant (the
// engine may request a library while compiling another).
type SourceProvider interface {
	LibrarySource(ref any, format SourceFormat) ([]byte, bool)
}

// SourceLoader is the engine's registration point for source providers.
type SourceLoader interface {
	RegisterProvider(p SourceProvider)
}

// Session is one engine model context plus library manager. Sessions are
// single-run, single-goroutine objects.
type Session interface {
	// SourceLoader exposes the session's provider registration point.
	SourceLoader() SourceLoader

	// Compiler returns the session's compile surface. Its concrete type is
	// engine-specific; callers discover entry points by asserting the
	// capability interfaces below.
	Compiler() any
}

// Translator is one successful compilation attempt. Serialization
// capabilities are asserted against the concrete value.
type Translator interface {
	// Diagnostics returns the engine's ordered error list. A non-empty
	// list means the compilation failed.
	Diagnostics() []string
}

// FileCompiler is the basic two-argument compile entry point.
type FileCompiler interface {
	CompileFile(path string) (Translator, error)
}

// OptionsFileCompiler is the three-argument compile entry point taking an
// engine-native options object previously obtained from OptionsConstructor.
type OptionsFileCompiler interface {
	CompileFileWithOptions(path string, opts any) (Translator, error)
}

// TextCompiler compiles from source text instead of a file.
type TextCompiler interface {
	CompileText(source string) (Translator, error)
}

// OptionsConstructor builds an engine-native translator options object.
// The returned value's setter surface varies by engine version; callers
// apply settings through the option setter interfaces below, skipping any
// the object does not implement.
type OptionsConstructor interface {
	NewTranslatorOptions() any
}

// XMLSerializer renders a translator's output as ELM XML.
type XMLSerializer interface {
	ToXML() (string, error)
}

// JSONSerializer renders a translator's output as ELM JSON.
type JSONSerializer interface {
	ToJSON() (string, error)
}

// SignatureLevel controls how much operator signature information the
// engine includes in its output.
type SignatureLevel int

const (
	SignatureNone SignatureLevel = iota
	SignatureDiffering
	SignatureOverloads
	SignatureAll
)

// String returns the canonical name of the signature level.
func (l SignatureLevel) String() string {
	switch l {
	case SignatureNone:
		return "None"
	case SignatureDiffering:
		return "Differing"
	case SignatureOverloads:
		return "Overloads"
	case SignatureAll:
		return "All"
	default:
		return "None"
	}
}
