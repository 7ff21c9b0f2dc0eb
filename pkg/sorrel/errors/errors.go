// Package errors provides structured error types for the Sorrel language.
//
// This package defines SorrelError, a unified error type that can represent
// lexer, parser, and runtime errors with rich metadata for display and
// programmatic handling.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassLex       ErrorClass = "lex"          // Malformed input before parsing
	ClassParse     ErrorClass = "parse"        // Parser/syntax errors
	ClassName      ErrorClass = "name"         // Unbound identifiers
	ClassType      ErrorClass = "type"         // Operation undefined for operand kinds
	ClassIndex     ErrorClass = "index"        // Sequence index out of range
	ClassKey       ErrorClass = "key"          // Mapping key absent
	ClassZeroDiv   ErrorClass = "zerodivision" // Division by zero
	ClassArity     ErrorClass = "arity"        // Wrong argument count
	ClassRecursion ErrorClass = "recursion"    // Call depth limit exceeded
	ClassRaise     ErrorClass = "raise"        // User-raised via 'raise'
)

// Kind returns the user-facing error kind name for a class, the name a
// diagnostic leads with ("NameError: foo is not defined").
func (c ErrorClass) Kind() string {
	switch c {
	case ClassLex:
		return "LexError"
	case ClassParse:
		return "ParseError"
	case ClassName:
		return "NameError"
	case ClassType:
		return "TypeError"
	case ClassIndex:
		return "IndexError"
	case ClassKey:
		return "KeyError"
	case ClassZeroDiv:
		return "ZeroDivisionError"
	case ClassArity:
		return "ArityError"
	case ClassRecursion:
		return "RecursionError"
	case ClassRaise:
		return "Error"
	default:
		return "Error"
	}
}

// IsCatchable reports whether a try/except block may catch this class.
// Lex and parse errors abort their phase before evaluation ever starts,
// so only runtime classes are catchable.
func (c ErrorClass) IsCatchable() bool {
	switch c {
	case ClassLex, ClassParse:
		return false
	}
	return true
}

// SorrelError represents any error from lexing, parsing, or evaluation.
type SorrelError struct {
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
func (e *SorrelError) Error() string {
	return e.String()
}

// String returns a single-line formatted representation of the error.
func (e *SorrelError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Class.Kind())
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *SorrelError) PrettyString() string {
	var sb strings.Builder

	sb.WriteString(e.Class.Kind())

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

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *SorrelError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *SorrelError) WithFile(file string) *SorrelError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *SorrelError) WithPosition(line, column int) *SorrelError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
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
	// Lex errors (LEX-0xxx)
	// ========================================
	"LEX-0001": {
		Class:    ClassLex,
		Template: "unrecognized character {{.Char}}",
	},
	"LEX-0002": {
		Class:    ClassLex,
		Template: "unterminated string",
	},
	"LEX-0003": {
		Class:    ClassLex,
		Template: "inconsistent indentation: dedent does not match any outer level",
	},
	"LEX-0004": {
		Class:    ClassLex,
		Template: "invalid escape sequence '\\{{.Escape}}' in string",
	},

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
		Template: "expected an indented block after ':'",
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "'{{.Keyword}}' outside loop",
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "'return' outside function",
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "invalid number literal: {{.Literal}}",
	},
	"PARSE-0007": {
		Class:    ClassParse,
		Template: "cannot assign to {{.Target}}",
		Hints:    []string{"assignment targets are names, seq[index], and dict.key"},
	},
	"PARSE-0008": {
		Class:    ClassParse,
		Template: "'except' without matching 'try'",
	},

	// ========================================
	// Name errors (NAME-0xxx)
	// ========================================
	"NAME-0001": {
		Class:    ClassName,
		Template: "name '{{.Name}}' is not defined",
		// Hint "Did you mean `X`?" added dynamically by fuzzy matching
	},
	"NAME-0002": {
		Class:    ClassName,
		Template: "cannot assign to undefined name '{{.Name}}' in strict mode",
		Hints:    []string{"disable strict_assignment, or bind the name in an enclosing scope first"},
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:    ClassType,
		Template: "unsupported operand types for {{.Operator}}: {{.Left}} and {{.Right}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "cannot compare {{.Left}} and {{.Right}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "{{.Got}} is not callable",
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "cannot iterate over {{.Got}}",
		Hints:    []string{"for works with lists, strings, and dicts"},
	},
	"TYPE-0005": {
		Class:    ClassType,
		Template: "cannot index {{.Got}} with {{.IndexType}}",
	},
	"TYPE-0006": {
		Class:    ClassType,
		Template: "argument to `{{.Function}}` must be {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0007": {
		Class:    ClassType,
		Template: "unhashable key type: {{.Got}}",
	},
	"TYPE-0008": {
		Class:    ClassType,
		Template: "bad operand type for unary {{.Operator}}: {{.Got}}",
	},
	"TYPE-0009": {
		Class:    ClassType,
		Template: "attribute access is only supported on dicts, got {{.Got}}",
	},

	// ========================================
	// Index errors (INDEX-0xxx)
	// ========================================
	"INDEX-0001": {
		Class:    ClassIndex,
		Template: "index {{.Index}} out of range (length {{.Length}})",
	},

	// ========================================
	// Key errors (KEY-0xxx)
	// ========================================
	"KEY-0001": {
		Class:    ClassKey,
		Template: "key {{.Key}} not found",
	},

	// ========================================
	// Zero-division errors (ZERO-0xxx)
	// ========================================
	"ZERO-0001": {
		Class:    ClassZeroDiv,
		Template: "division by zero",
	},
	"ZERO-0002": {
		Class:    ClassZeroDiv,
		Template: "modulo by zero",
	},

	// ========================================
	// Arity errors (ARITY-0xxx)
	// ========================================
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "{{.Function}}() takes {{.Want}} argument(s), got {{.Got}}",
	},
	"ARITY-0002": {
		Class:    ClassArity,
		Template: "{{.Function}}() takes {{.Min}}-{{.Max}} arguments, got {{.Got}}",
	},

	// ========================================
	// Recursion errors (REC-0xxx)
	// ========================================
	"REC-0001": {
		Class:    ClassRecursion,
		Template: "maximum recursion depth exceeded ({{.Limit}})",
	},
}

// New creates a SorrelError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *SorrelError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &SorrelError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &SorrelError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a SorrelError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *SorrelError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *SorrelError {
	return &SorrelError{
		Class:   class,
		Message: message,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FuzzyMatch represents a fuzzy match result with its distance.
type FuzzyMatch struct {
	Value    string
	Distance int
}

// FindClosestMatch finds the closest match to the input from candidates.
// Returns the best match if the distance is within a length-scaled threshold,
// otherwise the empty string.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		candidateLower := strings.ToLower(candidate)

		dist := levenshteinDistance(inputLower, candidateLower)

		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate // Return original case
		}
	}

	// Short words (1-3): max 1 edit; medium (4-6): 2; longer: 3
	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// FindTopMatches returns the top N closest matches to the input.
func FindTopMatches(input string, candidates []string, n int) []string {
	if len(input) == 0 || len(candidates) == 0 || n <= 0 {
		return nil
	}

	inputLower := strings.ToLower(input)

	var matches []FuzzyMatch
	for _, candidate := range candidates {
		candidateLower := strings.ToLower(candidate)
		dist := levenshteinDistance(inputLower, candidateLower)
		if dist > 0 {
			matches = append(matches, FuzzyMatch{Value: candidate, Distance: dist})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	var result []string
	for i := 0; i < len(matches) && i < n; i++ {
		if matches[i].Distance <= threshold {
			result = append(result, matches[i].Value)
		}
	}

	return result
}

// NewUndefinedName creates a NameError with optional fuzzy matching.
func NewUndefinedName(name string, availableNames []string) *SorrelError {
	data := map[string]any{"Name": name}
	err := New("NAME-0001", data)

	if suggestion := FindClosestMatch(name, availableNames); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}

// Keywords reserved by Sorrel, used for fuzzy matching against typos.
var Keywords = []string{
	"def", "if", "elif", "else", "while", "for", "in", "return",
	"break", "continue", "and", "or", "not", "true", "false", "none",
	"raise", "try", "except",
}
