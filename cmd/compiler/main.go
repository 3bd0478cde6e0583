/*
File    : cmini/cmd/compiler/main.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Command compiler is the thin driver that wires the front end's
// stages together: read -> parse -> check -> print. It takes exactly
// one positional argument, the source file path, the way go-mix's
// main.go dispatches on os.Args — trimmed to that single contract,
// since this front end has no REPL or server mode to dispatch to.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/akashmaji946/cmini/internal/checker"
	"github.com/akashmaji946/cmini/internal/parser"
	"github.com/akashmaji946/cmini/internal/printer"
	"github.com/akashmaji946/cmini/internal/source"
)

var redColor = color.New(color.FgRed)

// Every exit path below uses status 0, matching spec.md §6's CLI
// contract (Open Question 1 notes this is inherited from the source
// and may be unintentional; the spec preserves it rather than guess).
func main() {
	if len(os.Args) != 2 {
		redColor.Fprintln(os.Stderr, "error: no filepath specified")
		os.Exit(0)
	}

	path := os.Args[1]

	src, err := source.ReadFile(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(0)
	}

	prog, err := parser.Parse(src)
	if err != nil {
		redColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(0)
	}

	if err := checker.Check(prog); err != nil {
		redColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(0)
	}

	fmt.Print(printer.Print(prog))
	os.Exit(0)
}
