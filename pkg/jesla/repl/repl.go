package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/evaluator"
	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
	"github.com/jesla-lang/jesla/pkg/jesla/parser"
	"github.com/peterh/liner"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
  ░▀█ █▀▀ █▀ █░░ ▄▀█
  █▄█ ██▄ ▄█ █▄▄ █▀█ `

// jesla keywords for tab completion
var completionWords = []string{
	"and", "or", "var", "print", "if", "else", "while", "for",
	"break", "continue", "true", "false", "nil",
}

// Start starts the REPL with line editing, history, and tab completion
func Start(in io.Reader, out io.Writer, version string) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	// Load command history from file
	historyFile := filepath.Join(os.TempDir(), ".jesla_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	env := evaluator.NewEnvironment()

	fmt.Fprintf(out, "%s", LOGO)
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
				// Ctrl+C - clear any buffered input and return to main prompt
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

		// Handle REPL commands (start with :)
		if inputBuffer.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			handleReplCommand(trimmed, env, out)
			continue
		}

		// Skip empty lines when no input buffered
		if inputBuffer.Len() == 0 && trimmed == "" {
			continue
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		// Keep reading while braces or parens are unclosed
		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		if trimmed != "" {
			line.AppendHistory(fullInput)
		}

		l := lexer.New(fullInput)
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
			} else if evaluated.Type() != evaluator.NULL_OBJ {
				// Echo the value of a trailing expression statement;
				// statements evaluate to nil and print nothing
				io.WriteString(out, evaluator.Stringify(evaluated))
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

	case ":env":
		printEnvironment(env, out)

	case ":clear":
		*env = *evaluator.NewEnvironment()
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

	// Sort for consistent output
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		obj := vars[name]
		fmt.Fprintf(out, "  %s: %s = %s\n", name, string(obj.Type()), obj.Inspect())
	}
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
		return nil
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return nil
	}

	lastWord := words[len(words)-1]

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed braces, parentheses, or
// an unterminated string
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	braceCount := 0
	parenCount := 0
	inString := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		// Skip line comments
		if ch == '/' && i+1 < len(input) && input[i+1] == '/' {
			for i < len(input) && input[i] != '\n' {
				i++
			}
			continue
		}

		switch ch {
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	return braceCount > 0 || parenCount > 0 || inString
}

// printStructuredErrors prints parser errors using structured error format
func printStructuredErrors(out io.Writer, errs []*jerrors.JeslaError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
	}
}

// printRuntimeError prints a runtime error with structured formatting
func printRuntimeError(out io.Writer, err *evaluator.Error) {
	io.WriteString(out, "Runtime error")

	if err.Line > 0 {
		fmt.Fprintf(out, ": line %d, column %d\n  %s\n", err.Line, err.Column, err.Message)
	} else {
		io.WriteString(out, "\n  "+err.Message+"\n")
	}

	for _, hint := range err.Hints {
		io.WriteString(out, "  hint: "+hint+"\n")
	}
}
