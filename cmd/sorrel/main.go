package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sambeau/sorrel/config"
	"github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/evaluator"
	"github.com/sambeau/sorrel/pkg/sorrel/help"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
	"github.com/sambeau/sorrel/pkg/sorrel/parser"
	"github.com/sambeau/sorrel/pkg/sorrel/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.1.0"

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
	watchFlag    = flag.Bool("watch", false, "Re-run the file when it changes")

	// Interpreter flags
	configFlag = flag.String("config", "", "Path to sorrel.yaml config file")
	strictFlag = flag.Bool("strict", false, "Assignment to an undefined name is an error")
	localeFlag = flag.String("locale", "", "Locale for formatnum/formattime (e.g. en_GB)")
)

func main() {
	// Subcommands are checked before flag parsing
	if len(os.Args) > 1 && os.Args[1] == "describe" {
		describeCommand(os.Args[2:])
		return
	}

	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag || *versionLongFlag {
		fmt.Printf("sorrel version %s\n", Version)
		os.Exit(0)
	}

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		executeInline(evalCode)
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
		watchFile(flag.Args()[0])
	case len(flag.Args()) > 0:
		code := executeFile(flag.Args()[0])
		os.Exit(code)
	default:
		repl.Start(os.Stdin, os.Stdout, Version)
	}
}

func printHelp() {
	fmt.Printf(`sorrel - Sorrel language interpreter version %s

Usage:
  sorrel [options] [file]
  sorrel -e "code"
  sorrel --check <file>...
  sorrel describe <topic>

Commands:
  describe <topic>      Show help for a type, builtin, operator, or keyword

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Evaluation Options:
  -e, --eval <code>     Evaluate a code string
  --check               Check syntax without executing (multiple files allowed)
  --watch               Re-run the file whenever it changes

Interpreter Options:
  --config <path>       Read settings from a sorrel.yaml file
  --strict              Assignment to an undefined name is a NameError
  --locale <tag>        Locale for formatnum/formattime (e.g. en_GB)

Examples:
  sorrel                      Start the interactive REPL
  sorrel script.sor           Execute a Sorrel script
  sorrel -e "print(1 + 2)"    Evaluate inline code
  sorrel --check script.sor   Check syntax without executing
  sorrel --watch script.sor   Re-run on every save
  sorrel describe list        Show help for the list type
  sorrel describe builtins    List all builtin functions
`, Version)
}

// describeCommand implements the 'sorrel describe <topic>' subcommand
func describeCommand(args []string) {
	jsonOutput := false
	var topic string

	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		} else if !strings.HasPrefix(arg, "-") {
			topic = arg
		}
	}

	if topic == "" {
		fmt.Fprintln(os.Stderr, `Usage: sorrel describe [--json] <topic>

Topics:
  types              List all types
  builtins           List all builtin functions
  operators          List all operators
  keywords           List all keywords
  <name>             Help for a specific type, builtin, or keyword

Examples:
  sorrel describe list
  sorrel describe print
  sorrel describe while
  sorrel describe --json dict`)
		os.Exit(1)
	}

	result, err := help.DescribeTopic(topic)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		data, err := help.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(help.FormatText(result, 80))
	}
}

// newEnvironment builds an environment from the config file plus flag
// overrides.
func newEnvironment() (*evaluator.Environment, error) {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return nil, err
	}

	rt := evaluator.NewRuntime()
	rt.MaxRecursionDepth = cfg.MaxRecursion
	rt.StrictAssignment = cfg.StrictAssignment || *strictFlag
	rt.Locale = cfg.Locale
	if *localeFlag != "" {
		rt.Locale = *localeFlag
	}

	return evaluator.NewEnvironmentWithRuntime(rt), nil
}

// executeInline evaluates code provided via -e and echoes a non-none
// result, REPL style.
func executeInline(code string) {
	l := lexer.NewWithFilename(code, "<eval>")
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) != 0 {
		printStructuredErrors(code, errs)
		os.Exit(1)
	}

	env, err := newEnvironment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	env.Filename = "<eval>"

	evaluated := evaluator.Eval(program, env)
	if errObj, ok := evaluated.(*evaluator.Error); ok {
		printRuntimeError("<eval>", code, errObj)
		os.Exit(1)
	}
	if evaluated != nil && evaluated.Type() != evaluator.NONE_OBJ {
		fmt.Println(evaluated.Inspect())
	}
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

		l := lexer.NewWithFilename(string(content), filename)
		p := parser.New(l)
		_ = p.ParseProgram()

		if errs := p.StructuredErrors(); len(errs) != 0 {
			printStructuredErrors(string(content), errs)
			hasErrors = true
		}
	}

	if hasErrors {
		return 1
	}
	return 0
}

// executeFile reads and executes a Sorrel source file, returning the
// process exit code.
func executeFile(filename string) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		return 2
	}

	l := lexer.NewWithFilename(string(content), filename)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) != 0 {
		printStructuredErrors(string(content), errs)
		return 1
	}

	env, envErr := newEnvironment()
	if envErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", envErr)
		return 2
	}
	env.Filename = filename

	evaluated := evaluator.Eval(program, env)
	if errObj, ok := evaluated.(*evaluator.Error); ok {
		printRuntimeError(filename, string(content), errObj)
		return 1
	}

	return 0
}

// watchFile runs the file once, then re-runs it on every write. Rapid
// editor save bursts are debounced.
func watchFile(filename string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating watcher: %v\n", err)
		os.Exit(2)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save, which
	// drops a watch set on the file itself.
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", filename, err)
		os.Exit(2)
	}

	run := func() {
		fmt.Fprintf(os.Stderr, "--- %s (%s)\n", filename, time.Now().Format("15:04:05"))
		executeFile(filename)
	}
	run()

	const debounce = 100 * time.Millisecond
	lastChange := time.Now()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Base(event.Name) != filepath.Base(filename) {
				continue
			}
			if time.Since(lastChange) < debounce {
				continue
			}
			lastChange = time.Now()
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

// printStructuredErrors prints parser errors with source context
func printStructuredErrors(source string, errs []*errors.SorrelError) {
	lines := strings.Split(source, "\n")

	for _, err := range errs {
		fmt.Fprintln(os.Stderr, err.PrettyString())
		printSourceContext(lines, err.Line, err.Column)
	}
}

// printRuntimeError prints a runtime error with source context
func printRuntimeError(filename string, source string, errObj *evaluator.Error) {
	err := errObj.Err
	displayFile := filename
	displaySource := source
	if err.File != "" && err.File != filename {
		displayFile = err.File
		if content, readErr := os.ReadFile(err.File); readErr == nil {
			displaySource = string(content)
		}
	}
	lines := strings.Split(displaySource, "\n")

	fmt.Fprintf(os.Stderr, "%s", err.Class.Kind())
	if err.Line > 0 {
		fmt.Fprintf(os.Stderr, " in %s: line %d, column %d\n", displayFile, err.Line, err.Column)
	} else if displayFile != "" {
		fmt.Fprintf(os.Stderr, " in %s\n", displayFile)
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

	// Count columns removed from the left, tabs as 8
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
