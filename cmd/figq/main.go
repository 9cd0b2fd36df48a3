// Package main is the entry point for the figq CLI tool.
package main

import (
	"os"

	"github.com/gabrielrenderos/figq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
