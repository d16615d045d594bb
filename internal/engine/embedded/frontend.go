package embedded

import (
	"fmt"
	"regexp"
	"strings"
)

// The embedded front end recognizes the declaration statements of a CQL
// library. It is deliberately small: enough language surface to resolve
// dependencies, report unresolved references, and emit ELM for the
// statements it understands.

type library struct {
	Name    string
	Version string

	Usings   []usingDecl
	Includes []includeDecl
	Defines  []defineDecl
	Context  string
}

type usingDecl struct {
	Model   string
	Version string
	Line    int
}

type includeDecl struct {
	Path    string
	Version string
	Alias   string
	Line    int
}

type defineDecl struct {
	Name    string
	Expr    string
	Context string
	Line    int
}

// knownModels are the model namespaces the embedded engine can resolve,
// mapped to their info URIs.
var knownModels = map[string]string{
	"System": "urn:hl7-org:elm-types:r1",
	"FHIR":   "http://hl7.org/fhir",
	"QDM":    "urn:healthit-gov:qdm:v5_6",
	"QUICK":  "http://hl7.org/fhir/us/quick",
}

var (
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	libraryRE      = regexp.MustCompile(`^library\s+"?([A-Za-z_][\w.]*)"?(?:\s+version\s+'([^']*)')?`)
	usingRE        = regexp.MustCompile(`^using\s+([A-Za-z_]\w*)(?:\s+version\s+'([^']*)')?`)
	includeRE      = regexp.MustCompile(`^include\s+"?([A-Za-z_][\w.]*)"?(?:\s+version\s+'([^']*)')?(?:\s+called\s+([A-Za-z_]\w*))?`)
	contextRE      = regexp.MustCompile(`^context\s+([A-Za-z_]\w*)`)
	defineRE       = regexp.MustCompile(`^define\s+(?:"([^"]+)"|([A-Za-z_]\w*))\s*:\s*(.*)$`)
)

// parseLibrary scans source text into a library. Parsing never fails
// outright; statements the front end does not recognize are ignored in
// lenient mode and reported in strict mode.
func parseLibrary(source string, strict bool) (*library, []string) {
	lib := &library{}
	var diags []string

	// Block comments may span lines; blank them out preserving line count.
	source = blockCommentRE.ReplaceAllStringFunc(source, func(m string) string {
		return strings.Repeat("\n", strings.Count(m, "\n"))
	})

	context := ""
	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		lineNo := i + 1

		switch {
		case strings.HasPrefix(line, "library"):
			if m := libraryRE.FindStringSubmatch(line); m != nil {
				lib.Name, lib.Version = m[1], m[2]
			} else if strict {
				diags = append(diags, fmt.Sprintf("Could not parse library declaration at line %d: %s", lineNo, line))
			}
		case strings.HasPrefix(line, "using"):
			if m := usingRE.FindStringSubmatch(line); m != nil {
				lib.Usings = append(lib.Usings, usingDecl{Model: m[1], Version: m[2], Line: lineNo})
			}
		case strings.HasPrefix(line, "include"):
			if m := includeRE.FindStringSubmatch(line); m != nil {
				lib.Includes = append(lib.Includes, includeDecl{Path: m[1], Version: m[2], Alias: m[3], Line: lineNo})
			}
		case strings.HasPrefix(line, "context"):
			if m := contextRE.FindStringSubmatch(line); m != nil {
				context = m[1]
				lib.Context = context
			}
		case strings.HasPrefix(line, "define"):
			if m := defineRE.FindStringSubmatch(line); m != nil {
				name := m[1]
				if name == "" {
					name = m[2]
				}
				lib.Defines = append(lib.Defines, defineDecl{Name: name, Expr: strings.TrimSpace(m[3]), Context: context, Line: lineNo})
			} else if strict {
				diags = append(diags, fmt.Sprintf("Could not parse define statement at line %d: %s", lineNo, line))
			}
		case strings.HasPrefix(line, "parameter"),
			strings.HasPrefix(line, "valueset"),
			strings.HasPrefix(line, "codesystem"),
			strings.HasPrefix(line, "code "),
			strings.HasPrefix(line, "concept"):
			// Declarations the embedded front end tolerates but does not model.
		default:
			if strict {
				diags = append(diags, fmt.Sprintf("Could not parse statement at line %d: %s", lineNo, line))
			}
		}
	}

	if lib.Name == "" {
		diags = append(diags, "Library declaration is missing: expected 'library <Name>'")
	}
	return lib, diags
}
