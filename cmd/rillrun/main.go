// Command rillrun is a reference host for the rill scripting engine: it
// parses, runs, and registers a handful of demo native functions against
// script files given on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/rillscript/rill/cmd/rillrun/cmd"
)

func main() {
	os.Exit(run())
}

// run is split out from main so testscript's RunMain can invoke this binary
// in-process under a test name (main_test.go).
func run() int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
