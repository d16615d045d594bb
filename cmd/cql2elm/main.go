// Package main is the entry point for the cql2elm CLI.
package main

import (
	"os"

	"github.com/cqlforge/cql2elm/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
