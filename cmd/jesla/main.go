package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/evaluator"
	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
	"github.com/jesla-lang/jesla/pkg/jesla/parser"
	"github.com/jesla-lang/jesla/pkg/jesla/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

// Exit codes follow the sysexits convention: 65 for malformed input,
// 70 for an internal runtime failure
const (
	exitOK      = 0
	exitSyntax  = 65
	exitRuntime = 70
)

var (
	// Display flags
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	// Evaluation flags
	evalFlag     = flag.String("e", "", "Evaluate code string")
	evalLongFlag = flag.String("eval", "", "Evaluate code string")
	checkFlag    = flag.Bool("check", false, "Check syntax without executing")
	watchFlag    = flag.Bool("watch", false, "Re-run the script when the file changes")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(exitOK)
	}

	if *versionFlag || *versionLongFlag {
		fmt.Printf("jesla version %s\n", Version)
		os.Exit(exitOK)
	}

	// Prefer -e over --eval if both set
	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		os.Exit(executeInline(evalCode))
	case *checkFlag:
		files := flag.Args()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --check requires at least one file")
			os.Exit(2)
		}
		os.Exit(checkFiles(files))
	case *watchFlag:
		if len(flag.Args()) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --watch requires a file")
			os.Exit(2)
		}
		if err := watchFile(flag.Args()[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case len(flag.Args()) > 0:
		os.Exit(executeFile(flag.Args()[0]))
	default:
		repl.Start(os.Stdin, os.Stdout, Version)
	}
}

func printHelp() {
	fmt.Printf(`jesla - jesla language interpreter version %s

Usage:
  jesla [options] [file]
  jesla -e "code"
  jesla --check <file>...
  jesla --watch <file>

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Evaluation Options:
  -e, --eval <code>     Evaluate code string
  --check               Check syntax without executing (can specify multiple files)
  --watch               Re-run the script whenever the file changes

Examples:
  jesla                     Start interactive REPL
  jesla script.jes          Execute a jesla script
  jesla -e "print 1 + 2;"   Evaluate inline code (outputs: 3)
  jesla --check script.jes  Check syntax without executing
  jesla --watch script.jes  Re-run on every save
`, Version)
}

// executeInline evaluates inline code provided via -e
func executeInline(code string) int {
	l := lexer.New(code)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) != 0 {
		printStructuredErrors(code, errs)
		return exitSyntax
	}

	env := evaluator.NewEnvironment()
	env.Filename = "<eval>"
	evaluated := evaluator.Eval(program, env)

	if errObj, ok := evaluated.(*evaluator.Error); ok {
		printRuntimeError("<eval>", code, errObj)
		return exitRuntime
	}

	// Echo the value of a trailing expression statement
	if evaluated != nil && evaluated.Type() != evaluator.NULL_OBJ {
		fmt.Println(evaluator.Stringify(evaluated))
	}
	return exitOK
}

// checkFiles checks the syntax of one or more files without executing them
func checkFiles(files []string) int {
	hasErrors := false

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}

		l := lexer.New(string(content))
		p := parser.New(l)
		_ = p.ParseProgram()

		if errs := p.StructuredErrors(); len(errs) != 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e.WithFile(filename).PrettyString())
				printSourceContext(strings.Split(string(content), "\n"), e.Line, e.Column)
			}
			hasErrors = true
		}
	}

	if hasErrors {
		return exitSyntax
	}
	return exitOK
}

// executeFile reads and runs a jesla source file, returning the exit code
func executeFile(filename string) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		return 1
	}
	return runSource(filename, string(content))
}

// runSource parses and evaluates source, printing errors to stderr
func runSource(filename, source string) int {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) != 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.WithFile(filename).PrettyString())
			printSourceContext(strings.Split(source, "\n"), e.Line, e.Column)
		}
		return exitSyntax
	}

	env := evaluator.NewEnvironment()
	env.Filename = filename
	evaluated := evaluator.Eval(program, env)

	if errObj, ok := evaluated.(*evaluator.Error); ok {
		printRuntimeError(filename, source, errObj)
		return exitRuntime
	}
	return exitOK
}

// printStructuredErrors prints parser errors with source context
func printStructuredErrors(source string, errs []*jerrors.JeslaError) {
	lines := strings.Split(source, "\n")

	for _, err := range errs {
		fmt.Fprintln(os.Stderr, err.PrettyString())
		printSourceContext(lines, err.Line, err.Column)
	}
}

// printRuntimeError prints a runtime error with source context
func printRuntimeError(filename, source string, err *evaluator.Error) {
	lines := strings.Split(source, "\n")

	fmt.Fprint(os.Stderr, "Runtime error")
	if err.Line > 0 {
		fmt.Fprintf(os.Stderr, " in %s: line %d, column %d\n", filename, err.Line, err.Column)
	} else if filename != "" {
		fmt.Fprintf(os.Stderr, " in %s\n", filename)
	} else {
		fmt.Fprintln(os.Stderr)
	}
	fmt.Fprintf(os.Stderr, "  %s\n", err.Message)

	for _, hint := range err.Hints {
		fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
	}

	if err.Line > 0 {
		printSourceContext(lines, err.Line, err.Column)
	}
}

// printSourceContext prints the source line and error pointer
func printSourceContext(lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// Columns trimmed from the left, with tabs counted as 8
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == ' ' {
			trimCount++
		} else if sourceLine[i] == '\t' {
			trimCount += 8
		} else {
			break
		}
	}

	trimmedLine := strings.TrimLeft(sourceLine, " \t")
	fmt.Fprintf(os.Stderr, "    %s\n", trimmedLine)

	if colNum > 0 {
		visualCol := 0
		for i := 0; i < colNum-1 && i < len(sourceLine); i++ {
			if sourceLine[i] == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjustedCol := max(visualCol-trimCount, 0)
		pointer := strings.Repeat(" ", adjustedCol) + "^"
		fmt.Fprintf(os.Stderr, "    %s\n", pointer)
	}
}
