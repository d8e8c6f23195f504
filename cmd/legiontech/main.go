// Command legiontech is the pipeline's command-line front end: it wires
// pkg/pipeline's "tech" and "db" stages to the shell, the Go counterpart
// of tech's and db's own main()s.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rattab/legiontech/pkg/diag"
	"github.com/rattab/legiontech/pkg/pipeline"
)

const version = "1.0.0"

// CLI flags
var (
	configPath   = flag.String("config", "", "Path to YAML pipeline configuration file")
	dumpResolved = flag.Bool("dump-resolved", false, "db: also write gen/resolved.yaml, the fully-parsed stellar pools")
	verbose      = flag.Bool("verbose", false, "Enable verbose trace output")
	versionF     = flag.Bool("version", false, "Print version and exit")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("legiontech version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "legiontech: panic: %v\n", r)
			os.Exit(1)
		}
	}()

	var err error
	switch args[0] {
	case "tech":
		err = runTech(args[1:])
	case "db":
		err = runDB(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "legiontech: unknown command %q\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "legiontech: %v\n", err)
		os.Exit(1)
	}
}

// runTech runs the "tech <input-dir> <src-dir> <output-dir>" subcommand:
// build a tech tree from a hand-authored description and write its
// canonical form plus debug artifacts.
func runTech(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: legiontech tech <input-dir> <src-dir> <output-dir>")
	}
	inputDir, srcDir, outputDir := args[0], args[1], args[2]

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if *verbose {
		fmt.Printf("legiontech: building tech tree from %s\n", inputDir)
	}

	diags := diag.New(*verbose)
	if err := pipeline.Tech(cfg, inputDir, srcDir, outputDir, diags); err != nil {
		return err
	}
	return reportDiags(diags)
}

// runDB runs the "db <res-dir> <src-dir>" subcommand: compile a
// generated tree plus auxiliary stellar/io data into C header fragments.
func runDB(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: legiontech db <res-dir> <src-dir>")
	}
	resDir, srcDir := args[0], args[1]

	if *verbose {
		fmt.Printf("legiontech: compiling %s against %s\n", srcDir, resDir)
	}

	diags := diag.New(*verbose)
	if err := pipeline.DB(resDir, srcDir, *dumpResolved, diags); err != nil {
		return err
	}
	return reportDiags(diags)
}

// reportDiags writes every accumulated diagnostic to stderr and turns a
// non-empty error set into a non-nil error, the one place the CLI
// translates accumulated diagnostics into an exit code.
func reportDiags(diags *diag.Diagnostics) error {
	diags.WriteTo(os.Stderr)
	if diags.HasErrors() {
		return fmt.Errorf("failed with %d diagnostic(s)", len(diags.Entries()))
	}
	return nil
}

// printUsage prints basic usage information.
func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: legiontech <tech|db> [options] <args...>")
	fmt.Fprintln(os.Stderr, "Run 'legiontech -help' for detailed help")
}

// printHelp prints detailed help information.
func printHelp() {
	fmt.Printf("legiontech version %s\n\n", version)
	fmt.Println("A command-line tool for building and compiling tech trees.")
	fmt.Println("\nUsage:")
	fmt.Println("  legiontech tech <input-dir> <src-dir> <output-dir>")
	fmt.Println("      Read <input-dir>/tech.lisp, generate the full tree, and write")
	fmt.Println("      <src-dir>/tech.lisp plus debug artifacts into <output-dir>.")
	fmt.Println("  legiontech db <res-dir> <src-dir>")
	fmt.Println("      Read <src-dir>/tech.lisp plus <res-dir>/io.lisp and")
	fmt.Println("      <res-dir>/stars/, and write C header fragments into <src-dir>/gen/.")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML pipeline configuration file")
	fmt.Println("  -dump-resolved")
	fmt.Println("        db: also write gen/resolved.yaml with the fully-parsed stellar pools")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose trace output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  legiontech tech ./in ./src ./out")
	fmt.Println("  legiontech db ./res ./src")
}
