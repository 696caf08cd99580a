package main

import (
	"os"

	"github.com/graphite-graph/graphite-graph/internal/cli/commands"
)

// Version information is injected at build time:
//
//	go build -ldflags "-X github.com/graphite-graph/graphite-graph/internal/cli/commands.Version=v1.2.0"
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
