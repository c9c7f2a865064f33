// Package main is the entry point for the gapminder CLI.
package main

import (
	"os"

	"gapminder/cmd/cli/cmd"
	"gapminder/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
