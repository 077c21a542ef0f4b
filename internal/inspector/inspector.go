// Package inspector implements a read-eval-print loop over an already-
// frozen ClassDict (spec §4.3's "consulted read-only afterwards"): :class,
// :lookup, and :conforms query a compilation's dictionary without
// re-entering indexing. This is a developer tool over read-only data, not
// a language REPL (spec.md's non-goal on REPL is a language feature, not a
// developer tool over already-built data). Grounded on the teacher's
// internal/repl/repl.go: liner instance construction, history file,
// command dispatch on a ":"-prefixed line, multiline-free single-line
// queries since there is no expression grammar here to need continuation.
package inspector

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/shiika-lang/shiikac/internal/classdict"
	"github.com/shiika-lang/shiikac/internal/names"
	"github.com/shiika-lang/shiikac/internal/ty"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Inspector is a read-only REPL over a single frozen ClassDict.
type Inspector struct {
	dict    *classdict.ClassDict
	history []string
}

// New returns an Inspector over dict.
func New(dict *classdict.ClassDict) *Inspector {
	return &Inspector{dict: dict}
}

const historyFileName = ".shiikac_dict_history"

// Start runs the REPL loop, reading lines from the terminal via liner and
// writing to out, until the user quits or input reaches EOF.
func (insp *Inspector) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(func(s string) (c []string) {
		if strings.HasPrefix(s, ":") {
			for _, cmd := range []string{":help", ":quit", ":class", ":lookup", ":conforms", ":list"} {
				if strings.HasPrefix(cmd, s) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Fprintf(out, "%s\n", bold("shiikac-dict"))
	fmt.Fprintln(out, "Type :help for help, :quit to exit")
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt("dict> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		insp.history = append(insp.history, input)

		if input == ":quit" || input == ":q" {
			fmt.Fprintln(out, green("Goodbye!"))
			break
		}
		insp.handle(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handle dispatches a single ":command arg..." line. Start's loop calls it
// for every non-quit input; it takes a plain io.Writer so tests can drive
// it without a terminal.
func (insp *Inspector) handle(input string, out io.Writer) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}
	switch parts[0] {
	case ":help", ":h":
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  :help                Show this help")
		fmt.Fprintln(out, "  :quit                Exit")
		fmt.Fprintln(out, "  :class <Name>        Show a class's superclass, includes, and methods")
		fmt.Fprintln(out, "  :lookup <Name#meth>   Resolve a method against a class")
		fmt.Fprintln(out, "  :conforms <A> <B>    Report whether A conforms to B")
		fmt.Fprintln(out, "  :list                List every registered class")
	case ":class":
		if len(parts) < 2 {
			fmt.Fprintln(out, "Usage: :class <Name>")
			return
		}
		insp.cmdClass(parts[1], out)
	case ":lookup":
		if len(parts) < 2 {
			fmt.Fprintln(out, "Usage: :lookup <Name#method>")
			return
		}
		insp.cmdLookup(parts[1], out)
	case ":conforms":
		if len(parts) < 3 {
			fmt.Fprintln(out, "Usage: :conforms <A> <B>")
			return
		}
		insp.cmdConforms(parts[1], parts[2], out)
	case ":list":
		for _, name := range insp.dict.AllClassNames() {
			fmt.Fprintln(out, name)
		}
	default:
		fmt.Fprintf(out, "%s: unknown command %s\n", yellow("Warning"), input)
	}
}

func (insp *Inspector) cmdClass(name string, out io.Writer) {
	t, ok := insp.dict.FindType(names.NewClassFullname(name))
	if !ok {
		fmt.Fprintf(out, "%s: no such class %s\n", red("Error"), name)
		return
	}
	cls, ok := t.(*classdict.SkClass)
	if !ok {
		fmt.Fprintf(out, "%s is a module\n", cyan(name))
		printMethods(t, out)
		return
	}
	if cls.Superclass != nil {
		fmt.Fprintf(out, "%s < %s\n", cyan(name), cls.Superclass.Fullname.String())
	} else {
		fmt.Fprintf(out, "%s (no superclass)\n", cyan(name))
	}
	for _, inc := range cls.Includes {
		fmt.Fprintf(out, "  includes %s\n", inc.Fullname.String())
	}
	printMethods(t, out)
}

func printMethods(t classdict.SkType, out io.Writer) {
	sigs := t.Base().MethodSigs
	methodNames := make([]string, 0, len(sigs))
	for fn := range sigs {
		methodNames = append(methodNames, string(fn))
	}
	sort.Strings(methodNames)
	for _, n := range methodNames {
		fmt.Fprintf(out, "  %s\n", n)
	}
}

func (insp *Inspector) cmdLookup(query string, out io.Writer) {
	className, method, ok := strings.Cut(query, "#")
	if !ok {
		fmt.Fprintln(out, "Usage: :lookup <Name#method>")
		return
	}
	sig, owner, ok := classdict.LookupMethod(insp.dict, ty.Raw(className), names.MethodFirstname(method))
	if !ok {
		fmt.Fprintf(out, "%s: %s not found on %s\n", red("Error"), method, className)
		return
	}
	fmt.Fprintf(out, "%s defined on %s, returns %s\n", sig.Fullname.String(), owner.String(), sig.RetTy.String())
}

func (insp *Inspector) cmdConforms(a, b string, out io.Writer) {
	ok := classdict.Conforms(insp.dict, ty.Raw(a), ty.Raw(b))
	if ok {
		fmt.Fprintf(out, "%s conforms to %s: %s\n", a, b, green("yes"))
	} else {
		fmt.Fprintf(out, "%s conforms to %s: %s\n", a, b, red("no"))
	}
}
