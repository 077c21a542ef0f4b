// Command shiikac is the compiler driver: it orchestrates indexing, HIR
// lowering, and MIR construction over a bundled example program (spec.md
// §1 places source lexing/parsing out of scope for this compiler, so
// "input" here is one of internal/examples' Go-constructed ast.Program
// values, the same role a real frontend's parser output would fill), and
// optionally writes the resulting library export. Colorized phase
// reporting follows the teacher's cmd/ailang/main.go
// green/red/yellow/cyan/bold SprintFunc palette.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/shiika-lang/shiikac/internal/ast"
	"github.com/shiika-lang/shiikac/internal/config"
	"github.com/shiika-lang/shiikac/internal/examples"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		configFlag  = flag.String("config", "", "Path to shiikac.yaml (optional)")
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *versionFlag {
		fmt.Printf("shiikac %s\n", bold("dev"))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg := config.Config{CorelibPath: "corelib"}
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
			os.Exit(1)
		}
		cfg = *loaded
	}

	switch flag.Arg(0) {
	case "list":
		for _, name := range examples.Names() {
			fmt.Println(name)
		}
	case "build":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing program name\n", red("Error"))
			fmt.Println("Usage: shiikac build <program>")
			os.Exit(1)
		}
		cmdBuild(flag.Arg(1), &cfg)
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing program name\n", red("Error"))
			fmt.Println("Usage: shiikac check <program>")
			os.Exit(1)
		}
		cmdCheck(flag.Arg(1))
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("shiikac - Shiika-class AOT compiler driver"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shiikac <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <program>   Index, lower, and build MIR for a bundled program\n", cyan("build"))
	fmt.Printf("  %s <program>   Run the pipeline without output; report the first error, if any\n", cyan("check"))
	fmt.Printf("  %s              List bundled program names\n", cyan("list"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --config <path>   Load shiikac.yaml")
	fmt.Println("  --version         Print version information")
	fmt.Println("  --help            Show this help message")
}

func loadProgram(name string) (*ast.Program, error) {
	prog, ok := examples.Registry()[name]
	if !ok {
		return nil, fmt.Errorf("no such bundled program %q (see 'shiikac list')", name)
	}
	return prog, nil
}

func cmdBuild(name string, cfg *config.Config) {
	prog, err := loadProgram(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	fmt.Printf("%s Indexing %s...\n", cyan("→"), name)
	result, err := runPipeline(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s Indexed %d own class(es), %d foreign\n", green("✓"), len(result.mir.OwnClasses), len(result.mir.ForeignClasses))
	fmt.Printf("%s Lowered %d method(s) to HIR\n", green("✓"), len(result.methods))
	fmt.Printf("%s Built %d vtable(s), %d witness table(s)\n", green("✓"), len(result.mir.VTables), len(result.mir.WitnessTables))

	if cfg.DumpExports == "" {
		return
	}
	var data []byte
	switch cfg.DumpExports {
	case "json":
		data, err = result.exports.ToJSON(true)
	case "yaml":
		data, err = result.exports.ToYAML()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s Library export (%s):\n", cyan("→"), cfg.DumpExports)
	fmt.Println(string(data))
}

func cmdCheck(name string) {
	prog, err := loadProgram(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s Type checking %s...\n", cyan("→"), name)
	if _, err := runPipeline(prog); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	fmt.Printf("%s No errors found\n", green("✓"))
}
