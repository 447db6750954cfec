// Command algoscript is the CLI entry point: run, lex, parse, and
// version subcommands over the algoscript interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/algoscript/algoscript/cmd/algoscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
