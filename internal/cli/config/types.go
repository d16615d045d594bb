// Package config loads cql2elm configuration from defaults, an optional
// YAML file, environment variables, and command-line flags, in ascending
// precedence.
package config

import "github.com/cqlforge/cql2elm/internal/options"

// Defaults for the translation surface.
const (
	DefaultOutputPath = "output.xml"
	DefaultFormat     = "xml"
	DefaultSignatures = "None"

	// EnvPrefix namespaces environment variables (CQL2ELM_FORMAT, and
	// CQL2ELM_COMPILER__ANNOTATIONS for nested keys).
	EnvPrefix = "CQL2ELM_"
)

// Config is the fully resolved configuration for one invocation.
type Config struct {
	// InputPath is the CQL source file to translate. Required for
	// translation; commands print usage when it is missing.
	InputPath string `koanf:"input"`

	// OutputPath receives the serialized result.
	OutputPath string `koanf:"output"`

	// Format is "xml" or "json".
	Format string `koanf:"format"`

	// LibraryPath is the dependency search directory. Empty means
	// auto-detect: the input file's directory.
	LibraryPath string `koanf:"library_path"`

	// Engine names the engine binding; empty selects by priority.
	Engine string `koanf:"engine"`

	Verbose bool `koanf:"verbose"`
	Watch   bool `koanf:"watch"`

	Compiler CompilerConfig `koanf:"compiler"`

	// ConfigFileUsed records which config file was loaded, if any.
	ConfigFileUsed string `koanf:"-"`
}

// CompilerConfig mirrors the compiler option record, one key per switch.
type CompilerConfig struct {
	DateRangeOptimization   bool   `koanf:"date_range_optimization"`
	Annotations             bool   `koanf:"annotations"`
	Locators                bool   `koanf:"locators"`
	ResultTypes             bool   `koanf:"result_types"`
	DetailedErrors          bool   `koanf:"detailed_errors"`
	DisableListTraversal    bool   `koanf:"disable_list_traversal"`
	DisableListDemotion     bool   `koanf:"disable_list_demotion"`
	DisableListPromotion    bool   `koanf:"disable_list_promotion"`
	EnableIntervalDemotion  bool   `koanf:"enable_interval_demotion"`
	EnableIntervalPromotion bool   `koanf:"enable_interval_promotion"`
	DisableMethodInvocation bool   `koanf:"disable_method_invocation"`
	RequireFromKeyword      bool   `koanf:"require_from_keyword"`
	Strict                  bool   `koanf:"strict"`
	Debug                   bool   `koanf:"debug"`
	ValidateUnits           bool   `koanf:"validate_units"`
	Signatures              string `koanf:"signatures"`
}

// CompilerRecord builds the immutable option record for one run. Call
// Validate first; the record carries the signature level name as given.
func (c *Config) CompilerRecord() options.Record {
	return options.Record{
		DateRangeOptimization:   c.Compiler.DateRangeOptimization,
		Annotations:             c.Compiler.Annotations,
		Locators:                c.Compiler.Locators,
		ResultTypes:             c.Compiler.ResultTypes,
		DetailedErrors:          c.Compiler.DetailedErrors,
		DisableListTraversal:    c.Compiler.DisableListTraversal,
		DisableListDemotion:     c.Compiler.DisableListDemotion,
		DisableListPromotion:    c.Compiler.DisableListPromotion,
		EnableIntervalDemotion:  c.Compiler.EnableIntervalDemotion,
		EnableIntervalPromotion: c.Compiler.EnableIntervalPromotion,
		DisableMethodInvocation: c.Compiler.DisableMethodInvocation,
		RequireFromKeyword:      c.Compiler.RequireFromKeyword,
		Strict:                  c.Compiler.Strict,
		Debug:                   c.Compiler.Debug,
		ValidateUnits:           c.Compiler.ValidateUnits,
		Signatures:              c.Compiler.Signatures,
	}
}
