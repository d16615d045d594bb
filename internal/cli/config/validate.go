package config

import (
	"fmt"

	"github.com/cqlforge/cql2elm/internal/engine"
	"github.com/cqlforge/cql2elm/internal/options"
)

// Validate rejects configuration values that would otherwise fail
// mid-run: an unknown output format or signature level name.
func (c *Config) Validate() error {
	if _, err := engine.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := options.ParseSignatureLevel(c.Compiler.Signatures); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
