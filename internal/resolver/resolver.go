// Package resolver supplies dependent library source to the engine from a
// directory search path.
package resolver

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cqlforge/cql2elm/internal/engineapi"
)

// Extension is the file extension of CQL library sources.
const Extension = ".cql"

// DirectorySource resolves library references to files named
// <name>.cql under a base directory. It implements
// engineapi.SourceProvider and is registered with a session's source
// loader exactly once per run, before the first compilation attempt.
//
// Resolution is side-effect-free beyond file reads, so the engine may call
// it re-entrantly while compiling a dependency.
type DirectorySource struct {
	dir    string
	logger *slog.Logger
}

// NewDirectorySource creates a resolver rooted at dir. A nil logger
// discards debug output.
func NewDirectorySource(dir string, logger *slog.Logger) *DirectorySource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DirectorySource{dir: dir, logger: logger}
}

// Dir returns the base directory of the search path.
func (s *DirectorySource) Dir() string { return s.dir }

// LibrarySource resolves a library reference to source bytes.
//
// A hint that explicitly requests a non-source representation yields
// absence regardless of file presence, forcing the engine to recompile
// the dependency from source instead of reusing a cached form. A missing
// or unreadable file yields absence for that file only.
func (s *DirectorySource) LibrarySource(ref any, format engineapi.SourceFormat) ([]byte, bool) {
	name, ok := LibraryName(ref)
	if !ok {
		return nil, false
	}
	if format != "" && format != engineapi.FormatCQL {
		s.logger.Debug("non-source representation requested, deferring to recompilation",
			"library", name, "format", string(format))
		return nil, false
	}

	path := filepath.Join(s.dir, name+Extension)
	content, err := os.ReadFile(path)
	if err != nil {
		s.logger.Debug("library source unavailable", "library", name, "path", path, "error", err)
		return nil, false
	}
	s.logger.Debug("resolved library source", "library", name, "path", path, "bytes", len(content))
	return content, true
}

// ListLibraries returns the sorted names of all .cql files under the base
// directory. Used for verbose diagnostics context and the libs command.
func (s *DirectorySource) ListLibraries() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Extension))
	}
	sort.Strings(names)
	return names
}

// LibraryName extracts a library name from an opaque reference. The
// fallback tiers, in order: plain string, ID accessor, Name accessor,
// the reference's own textual form. Returns false only when no name can
// be extracted at all.
func LibraryName(ref any) (string, bool) {
	if ref == nil {
		return "", false
	}
	var name string
	switch v := ref.(type) {
	case string:
		name = v
	case interface{ ID() string }:
		name = v.ID()
	case interface{ Name() string }:
		name = v.Name()
	case fmt.Stringer:
		name = v.String()
	default:
		name = fmt.Sprint(ref)
	}
	if name == "" {
		return "", false
	}
	return name, true
}
