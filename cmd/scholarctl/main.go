// Command scholarctl runs matching and essay generation offline against the
// configured corpus and providers.
package main

import (
	"fmt"
	"os"

	"scholarship-engine/cmd/scholarctl/commands"
)

var version = "dev"

func main() {
	commands.SetVersion(version)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
