// Package main is the entry point for the mgp shell.
package main

import (
	"os"

	"magpie/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
