// Package errors provides structured error types for the Jesla language.
//
// This package defines JeslaError, a unified error type that can represent
// both parser and runtime errors with metadata for display and programmatic
// handling.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassParse      ErrorClass = "parse"      // Parser/syntax errors
	ClassType       ErrorClass = "type"       // Wrong operand types
	ClassArithmetic ErrorClass = "arithmetic" // Division by zero
	ClassName       ErrorClass = "name"       // Undefined variables
)

// JeslaError represents any error from parsing or evaluation.
type JeslaError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "TYPE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *JeslaError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *JeslaError) String() string {
	var sb strings.Builder

	// Location prefix
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	// Message
	sb.WriteString(e.Message)

	// Hints
	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *JeslaError) PrettyString() string {
	var sb strings.Builder

	// Error type header
	switch e.Class {
	case ClassParse:
		sb.WriteString("Parser error")
	default:
		sb.WriteString("Runtime error")
	}

	// Location
	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	// Message
	sb.WriteString(e.Message)

	// Hints
	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *JeslaError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *JeslaError) WithFile(file string) *JeslaError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *JeslaError) WithPosition(line, column int) *JeslaError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError returns true if this is a parser error.
func (e *JeslaError) IsParseError() bool {
	return e.Class == ClassParse
}

// IsRuntimeError returns true if this is a runtime error.
func (e *JeslaError) IsRuntimeError() bool {
	return e.Class != ClassParse
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected token '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "expected expression",
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "Invalid assignment target.",
		Hints:    []string{"only a variable can appear left of '{{.Operator}}'"},
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "invalid loop label '{{.Label}}': expected 'while' or 'for' after ':'",
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "unterminated string",
	},
	"PARSE-0007": {
		Class:    ClassParse,
		Template: "invalid number literal: {{.Literal}}",
	},
	"PARSE-0008": {
		Class:    ClassParse,
		Template: "invalid break statement",
		Hints:    []string{"break;", "break label;"},
	},
	"PARSE-0009": {
		Class:    ClassParse,
		Template: "invalid continue statement",
		Hints:    []string{"continue;", "continue label;"},
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:    ClassType,
		Template: "Operand must be a number.",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "Operands must be numbers.",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "Operands must be two numbers or two strings.",
		Hints:    []string{"'+' concatenates when either side is a string"},
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "unknown operator '{{.Operator}}' for {{.LeftType}} and {{.RightType}}",
	},

	// ========================================
	// Arithmetic errors (ARITH-0xxx)
	// ========================================
	"ARITH-0001": {
		Class:    ClassArithmetic,
		Template: "dividend cannot be zero",
	},

	// ========================================
	// Name errors (NAME-0xxx)
	// ========================================
	"NAME-0001": {
		Class:    ClassName,
		Template: "Undefined variable '{{.Name}}'.",
	},
}

// New creates a JeslaError from a catalog code and template data.
// Unknown codes fall back to a parse-class error naming the code, so a
// missing catalog entry is visible rather than silent.
func New(code string, data map[string]any) *JeslaError {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &JeslaError{
			Class:   ClassParse,
			Code:    code,
			Message: fmt.Sprintf("unknown error code %q", code),
			Data:    data,
		}
	}

	return &JeslaError{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   renderHints(def.Hints, data),
		Data:    data,
	}
}

// NewWithPosition creates a JeslaError from a catalog code with a position.
func NewWithPosition(code string, line, column int, data map[string]any) *JeslaError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// renderTemplate renders a message template with the given data
func renderTemplate(tmpl string, data map[string]any) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return tmpl
	}
	return buf.String()
}

// renderHints renders each hint template with the given data
func renderHints(hints []string, data map[string]any) []string {
	if len(hints) == 0 {
		return nil
	}
	result := make([]string, len(hints))
	for i, h := range hints {
		result[i] = renderTemplate(h, data)
	}
	return result
}
