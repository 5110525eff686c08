package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/grumpyproject/grumpy/internal/cli"
	"github.com/grumpyproject/grumpy/pkg/log"
)

func init() {
	log.SetDefault("warn", "text")
}

const (
	cmdName = "grumpy"

	shortDesc = "Opinionated Cargo project scaffolding."
	longDesc  = `Grumpy creates and augments Cargo projects with standardized conventions.

New projects get a fixed set of baseline dependencies and a standard
entry-point harness. Existing manifests are merged, not rewritten: your
edits, comments, and formatting are preserved, and re-running is always
safe.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
