package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// a config file.
const maxUpwardSearchLevels = 10

var configFileNames = []string{"cql2elm.yaml", "cql2elm.yml"}

// compilerFlags maps flag names that belong under the compiler section.
var compilerFlags = map[string]bool{
	"date-range-optimization":   true,
	"annotations":               true,
	"locators":                  true,
	"result-types":              true,
	"detailed-errors":           true,
	"disable-list-traversal":    true,
	"disable-list-demotion":     true,
	"disable-list-promotion":    true,
	"enable-interval-demotion":  true,
	"enable-interval-promotion": true,
	"disable-method-invocation": true,
	"require-from-keyword":      true,
	"strict":                    true,
	"debug":                     true,
	"validate-units":            true,
	"signatures":                true,
}

// findConfigFile locates the config file: an explicit path wins, then the
// standard names searched upward from the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load resolves configuration with precedence flags > env > file >
// defaults. Only flags the user actually changed override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"input":                "",
		"output":               DefaultOutputPath,
		"format":               DefaultFormat,
		"library_path":         "",
		"engine":               "",
		"verbose":              false,
		"watch":                false,
		"compiler.annotations": true,
		"compiler.locators":    true,
		"compiler.signatures":  DefaultSignatures,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFileUsed := findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFileUsed, err)
		}
	}

	// CQL2ELM_FORMAT -> format; CQL2ELM_COMPILER__ANNOTATIONS ->
	// compiler.annotations (double underscore nests).
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if compilerFlags[f.Name] {
				key = "compiler." + key
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.ConfigFileUsed = configFileUsed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
