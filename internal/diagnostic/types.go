package diagnostic

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"model-usage/internal/common"
)

// Diagnostic codes.
const (
	CodeUnresolvedEntity      = "unresolved-entity"
	CodeNonLiteralAssociation = "non-literal-association"
	CodeUnknownAssociation    = "unknown-association"
	CodeUnknownTarget         = "unknown-target"
	CodeUnresolvedThrough     = "unresolved-through"
	CodeImplicitThrough       = "implicit-through"
	CodeUnknownMixinVerb      = "unknown-mixin-verb"
	CodeTypeError             = "type-error"
)

// Diagnostics holds all diagnostic information from an analysis run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Pos is the source location of the offending expression (zero if none).
	Pos token.Position
	// Expr is the source text of the offending expression (if any).
	Expr string
	// Type is the display name of the expression's static type (if known).
	Type string
	// Entity names the entity the diagnostic relates to (if any).
	Entity string
	// Suggestions are potential fixes or alternatives.
	Suggestions []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add appends d to the bucket matching its severity.
func (d *Diagnostics) Add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message string, pos token.Position) {
	d.Add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, Pos: pos})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message string, pos token.Position) {
	d.Add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, Pos: pos})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message string, pos token.Position) {
	d.Add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, Pos: pos})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Len returns the total number of diagnostics of every severity.
func (d *Diagnostics) Len() int {
	return len(d.Errors) + len(d.Warnings) + len(d.Infos)
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// ByCode returns every diagnostic (any severity) carrying code, in emission order
// within each severity, errors first.
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, bucket := range [][]Diagnostic{d.Errors, d.Warnings, d.Infos} {
		for _, diag := range bucket {
			if diag.Code == code {
				out = append(out, diag)
			}
		}
	}

	return out
}

// All returns every diagnostic, errors first, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, d.Len())
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)

	return append(out, d.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string:
//
//	path/file.go:12:3: [unresolved-entity] cannot resolve model for x.Save (type any)
func (d Diagnostic) String() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if d.Expr != "" && d.Type != "" {
		msg += fmt.Sprintf(" (expr %s, type %s)", d.Expr, d.Type)
	} else if d.Expr != "" {
		msg += fmt.Sprintf(" (expr %s)", d.Expr)
	}

	if len(d.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(d.Suggestions, ", ") + "?"
	}

	if d.Pos.IsValid() {
		return d.Pos.String() + ": " + msg
	}

	return msg
}
