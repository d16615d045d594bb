// Package options holds the compiler option record and its binding onto
// engine-native options objects.
package options

import (
	"fmt"
	"strings"

	"github.com/cqlforge/cql2elm/internal/engineapi"
)

// Record is the flat set of compiler switches for one run. It is built
// once from configuration and treated as read-only afterwards; nothing in
// this package mutates a Record after construction.
type Record struct {
	DateRangeOptimization   bool
	Annotations             bool
	Locators                bool
	ResultTypes             bool
	DetailedErrors          bool
	DisableListTraversal    bool
	DisableListDemotion     bool
	DisableListPromotion    bool
	EnableIntervalDemotion  bool
	EnableIntervalPromotion bool
	DisableMethodInvocation bool
	RequireFromKeyword      bool
	Strict                  bool
	Debug                   bool
	ValidateUnits           bool

	// Signatures is the validated signature level name. Use
	// ParseSignatureLevel to validate user input before storing it here.
	Signatures string
}

// Default returns the record with documented defaults: annotations and
// locators on, everything else off, signature level None.
func Default() Record {
	return Record{
		Annotations: true,
		Locators:    true,
		Signatures:  engineapi.SignatureNone.String(),
	}
}

// signatureLevels maps the four accepted names onto the engine enumeration.
// Lookup is case-insensitive; anything else is rejected at configuration
// build time rather than discovered mid-run.
var signatureLevels = map[string]engineapi.SignatureLevel{
	"none":      engineapi.SignatureNone,
	"differing": engineapi.SignatureDiffering,
	"overloads": engineapi.SignatureOverloads,
	"all":       engineapi.SignatureAll,
}

// ParseSignatureLevel validates a signature level name and returns its
// typed value.
func ParseSignatureLevel(name string) (engineapi.SignatureLevel, error) {
	if level, ok := signatureLevels[strings.ToLower(name)]; ok {
		return level, nil
	}
	return engineapi.SignatureNone, fmt.Errorf("unknown signature level %q (expected None, Differing, Overloads or All)", name)
}
