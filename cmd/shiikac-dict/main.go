// Command shiikac-dict is a read-only REPL over a bundled program's frozen
// class dictionary (internal/inspector), generalized from the teacher's
// cmd/ailang repl subcommand / internal/repl/repl.go.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/examples"
	"github.com/shiika-lang/shiikac/internal/inspector"
)

func main() {
	programFlag := flag.String("program", "animals", "Bundled program to index before starting the inspector")
	flag.Parse()

	prog, ok := examples.Registry()[*programFlag]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no such bundled program %q (see 'shiikac list')\n", *programFlag)
		os.Exit(1)
	}

	dict, err := classdict.IndexProgram(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to index %q: %v\n", *programFlag, err)
		os.Exit(1)
	}

	inspector.New(dict).Start(os.Stdout)
}
