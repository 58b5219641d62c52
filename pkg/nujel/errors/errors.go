// Package errors provides structured error types for the Nujel tooling.
//
// Scanning source text never fails; errors only arise while building a
// tokenizer (keyword tables), loading configuration, reading files, rendering
// output, or talking to the render store. All of them are reported as *Error
// so the CLI and the preview server can print or serialize them uniformly.
package errors

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassConfig   ErrorClass = "config"   // Configuration file problems
	ClassKeywords ErrorClass = "keywords" // Keyword table construction
	ClassIO       ErrorClass = "io"       // File operations
	ClassRender   ErrorClass = "render"   // Output rendering
	ClassStore    ErrorClass = "store"    // Render store (database)
)

// Error represents a structured error with display metadata.
type Error struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "CONFIG-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *Error) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *Error) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassConfig, ClassKeywords:
		sb.WriteString("Configuration error")
	default:
		sb.WriteString("Error")
	}

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

// WithFile returns a copy of the error with the file path set.
func (e *Error) WithFile(file string) *Error {
	copy := *e
	copy.File = file
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
	// Keyword tables (KEYWORDS-0xxx)
	"KEYWORDS-0001": {
		Class:    ClassKeywords,
		Template: "builtin keyword table is empty",
		Hints:    []string{"keywords: {builtins: [def, fn, ...]}"},
	},
	"KEYWORDS-0002": {
		Class:    ClassKeywords,
		Template: "indent keyword table is empty",
		Hints:    []string{"keywords: {indent: [def, defn, let, ...]}"},
	},
	"KEYWORDS-0003": {
		Class:    ClassKeywords,
		Template: "invalid keyword {{printf \"%q\" .Word}}: keywords cannot contain whitespace, brackets or ';'",
	},
	"KEYWORDS-0004": {
		Class:    ClassKeywords,
		Template: "no keyword table given",
		Hints:    []string{"keywords.Default()", "keywords.New(builtins, indent)"},
	},

	// Configuration (CONFIG-0xxx)
	"CONFIG-0001": {
		Class:    ClassConfig,
		Template: "config file not found: {{.Path}}",
	},
	"CONFIG-0002": {
		Class:    ClassConfig,
		Template: "failed to parse config: {{.GoError}}",
	},
	"CONFIG-0003": {
		Class:    ClassConfig,
		Template: "configuration errors:\n  - {{.Problems}}",
	},

	// I/O (IO-0xxx)
	"IO-0001": {
		Class:    ClassIO,
		Template: "failed to {{.Operation}} '{{.Path}}': {{.GoError}}",
	},

	// Rendering (RENDER-0xxx)
	"RENDER-0001": {
		Class:    ClassRender,
		Template: "unknown output format {{printf \"%q\" .Format}}",
		Hints:    []string{"--format html", "--format ansi", "--format json", "--format tokens"},
	},
	"RENDER-0002": {
		Class:    ClassRender,
		Template: "unknown theme {{printf \"%q\" .Theme}}",
	},

	// Render store (STORE-0xxx)
	"STORE-0001": {
		Class:    ClassStore,
		Template: "unsupported store driver {{printf \"%q\" .Driver}} (supported: sqlite, postgres, mysql)",
	},
	"STORE-0002": {
		Class:    ClassStore,
		Template: "render store {{.Operation}} failed: {{.GoError}}",
	},
}

// New creates an Error from a catalog code and template data.
func New(code string, data map[string]any) *Error {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := fmt.Sprintf("unknown error code: %s", code)
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &Error{
			Class:   ClassIO,
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

	return &Error{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewIO wraps a Go error from a file operation.
func NewIO(operation, path string, err error) *Error {
	return New("IO-0001", map[string]any{
		"Operation": operation,
		"Path":      path,
		"GoError":   err.Error(),
	})
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

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns "" when nothing is close enough or the input matches exactly.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, candidate := range sorted {
		dist := levenshteinDistance(inputLower, strings.ToLower(candidate))
		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	// Short words (1-3): max 1 edit, medium (4-6): 2, longer: 3
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

// WithSuggestion appends a "Did you mean" hint when a close candidate exists.
func (e *Error) WithSuggestion(input string, candidates []string) *Error {
	if suggestion := FindClosestMatch(input, candidates); suggestion != "" {
		e.Hints = append(e.Hints, "Did you mean `"+suggestion+"`?")
	}
	return e
}
