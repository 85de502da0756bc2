package diagnostic

import (
	"bytes"
	"go/token"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddBySeverity(t *testing.T) {
	var d Diagnostics

	pos := token.Position{Filename: "svc.go", Line: 3, Column: 7}
	d.AddWarning(CodeUnresolvedEntity, "cannot resolve model", pos)
	d.AddInfo(CodeImplicitThrough, "implicit join entity", token.Position{})
	d.AddError(CodeTypeError, "boom", pos)

	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.Len(t, d.Errors, 1)
	assert.Equal(t, 3, d.Len())
	assert.True(t, d.HasErrors())
	assert.False(t, d.IsValid())
	require.Error(t, d.Error())
	assert.Contains(t, d.Error().Error(), "[type-error] boom")
}

func TestDiagnostics_MergeAndByCode(t *testing.T) {
	var a, b Diagnostics

	a.AddWarning(CodeUnknownAssociation, "first", token.Position{})
	b.AddWarning(CodeUnknownAssociation, "second", token.Position{})
	b.AddWarning(CodeUnresolvedEntity, "third", token.Position{})

	a.Merge(b)

	found := a.ByCode(CodeUnknownAssociation)
	require.Len(t, found, 2)
	assert.Equal(t, "first", found[0].Message)
	assert.Equal(t, "second", found[1].Message)
	assert.True(t, a.IsValid())
	assert.NoError(t, a.Error())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity:    DiagnosticWarning,
		Code:        CodeUnknownAssociation,
		Message:     `association "rols" not declared on Customer`,
		Pos:         token.Position{Filename: "svc.go", Line: 12, Column: 3},
		Expr:        "c",
		Type:        "*store.Customer",
		Suggestions: []string{"Roles"},
	}

	assert.Equal(t,
		`svc.go:12:3: [unknown-association] association "rols" not declared on Customer (expr c, type *store.Customer); did you mean Roles?`,
		d.String())

	assert.Equal(t, "[x] y", Diagnostic{Code: "x", Message: "y"}.String())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	Log(logger, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     CodeUnresolvedEntity,
		Message:  "cannot resolve model",
		Expr:     "v",
		Type:     "any",
	})
	Log(logger, Diagnostic{Severity: DiagnosticInfo, Code: CodeImplicitThrough, Message: "quiet"})
	Log(nil, Diagnostic{Message: "ignored"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=unresolved-entity")
	assert.Contains(t, out, "expr=v")
	assert.NotContains(t, out, "quiet")
}
