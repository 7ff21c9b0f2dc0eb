// Package repl implements the interactive Sorrel shell.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/evaluator"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
	"github.com/sambeau/sorrel/pkg/sorrel/parser"
)

const PROMPT = ">>> "
const CONTINUATION_PROMPT = "... "

const SORREL_LOGO = `
█▀ █▀█ █▀█ █▀█ █▀▀ █░░
▄█ █▄█ █▀▄ █▀▄ ██▄ █▄▄ `

// Sorrel keywords and builtins for tab completion
var completionWords = []string{
	// Keywords
	"def", "if", "elif", "else", "while", "for", "in", "return",
	"break", "continue", "and", "or", "not", "raise", "try", "except",
	// Builtins
	"print", "len", "type", "str", "int", "float", "bool", "range",
	"keys", "values", "append", "pop", "abs", "min", "max", "sum",
	"sorted", "parsetime", "formattime", "formatnum", "markdown",
	// Common values
	"true", "false", "none",
}

// Start runs the REPL with line editing, history, and tab completion.
// Lines ending in ':' (and lines with unclosed brackets) continue onto
// the next prompt; a blank line ends a block.
func Start(in io.Reader, out io.Writer, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	historyFile := filepath.Join(os.TempDir(), ".sorrel_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	env := evaluator.NewEnvironment()
	env.Filename = "<repl>"

	fmt.Fprintf(out, "%s", SORREL_LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C clears any buffered input
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if inputBuffer.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		// REPL meta-commands start with ':'
		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			handleReplCommand(trimmed, env, out)
			continue
		}

		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput, input) {
			continue
		}

		if strings.TrimSpace(fullInput) != "" {
			line.AppendHistory(fullInput)
		}

		l := lexer.NewWithFilename(fullInput, "<repl>")
		p := parser.New(l)
		program := p.ParseProgram()

		if errs := p.StructuredErrors(); len(errs) != 0 {
			printStructuredErrors(out, errs)
			inputBuffer.Reset()
			continue
		}

		evaluated := evaluator.Eval(program, env)
		if evaluated != nil {
			if errObj, ok := evaluated.(*evaluator.Error); ok {
				printRuntimeError(out, errObj)
			} else if evaluated.Type() != evaluator.NONE_OBJ {
				io.WriteString(out, evaluated.Inspect())
				io.WriteString(out, "\n")
			}
		}

		inputBuffer.Reset()
	}
}

// handleReplCommand handles REPL meta-commands that start with ':'
func handleReplCommand(cmd string, env *evaluator.Environment, out io.Writer) {
	switch cmd {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?   Show this help")
		fmt.Fprintln(out, "  :env            Show variables in scope")
		fmt.Fprintln(out, "  :clear          Clear all user variables")
		fmt.Fprintln(out, "  exit, quit      Exit the REPL")
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Blocks: end a line with ':' and keep typing;")
		fmt.Fprintln(out, "an empty line runs the block.")

	case ":env":
		printEnvironment(env, out)

	case ":clear":
		*env = *evaluator.NewEnvironment()
		env.Filename = "<repl>"
		fmt.Fprintln(out, "Environment cleared")

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// printEnvironment displays all user-defined variables in the environment
func printEnvironment(env *evaluator.Environment, out io.Writer) {
	vars := env.UserVariables()
	if len(vars) == 0 {
		fmt.Fprintln(out, "(no user variables)")
		return
	}

	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obj := vars[name]
		value := obj.Inspect()
		if len(value) > 60 && !strings.Contains(value, "\n") {
			value = value[:57] + "..."
		}
		fmt.Fprintf(out, "  %s: %s = %s\n", name, string(obj.Type()), value)
	}
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := line[:len(line)-len(lastWord)]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// needsMoreInput reports whether the buffered input is an unfinished
// block or has unclosed brackets. A block is open once any line ends with
// ':'; only a blank line closes it.
func needsMoreInput(full, lastLine string) bool {
	if unclosedBrackets(full) {
		return true
	}

	inBlock := false
	for _, line := range strings.Split(full, "\n") {
		line = stripComment(line)
		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			inBlock = true
			break
		}
	}
	if !inBlock {
		return false
	}
	return strings.TrimSpace(lastLine) != ""
}

// unclosedBrackets counts bracket depth outside string literals.
func unclosedBrackets(input string) bool {
	depth := 0
	var quote byte
	escaped := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escaped {
			escaped = false
			continue
		}
		if quote != 0 {
			switch ch {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'':
			quote = ch
		case '#':
			// Skip to end of line
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}

	return depth > 0
}

// stripComment removes a '#' comment, ignoring '#' inside strings.
func stripComment(line string) string {
	var quote byte
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if quote != 0 {
			switch ch {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case '#':
			return line[:i]
		}
	}
	return line
}

func printStructuredErrors(out io.Writer, errs []*errors.SorrelError) {
	for _, err := range errs {
		fmt.Fprintln(out, err.PrettyString())
	}
}

func printRuntimeError(out io.Writer, err *evaluator.Error) {
	fmt.Fprintln(out, err.Err.PrettyString())
}
