// Package main is the entry point for the mcpsync CLI.
package main

import (
	"os"

	"github.com/thoreinstein/mcpsync/cmd/mcpsync/commands"
)

func main() {
	os.Exit(commands.Execute())
}
