// Package main es el punto de entrada de membership-api.
package main

import (
	"fmt"
	"os"
)

// Informacion de version inyectada en build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s)", version, commit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
