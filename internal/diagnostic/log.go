package diagnostic

import (
	"context"
	"log/slog"
)

// Log writes diag to logger. Warnings and errors are logged at their own level,
// infos at debug so that a default logger stays quiet about them.
func Log(logger *slog.Logger, diag Diagnostic) {
	if logger == nil {
		return
	}

	level := slog.LevelDebug

	switch diag.Severity {
	case DiagnosticError:
		level = slog.LevelError
	case DiagnosticWarning:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{slog.String("code", diag.Code)}
	if diag.Pos.IsValid() {
		attrs = append(attrs, slog.String("pos", diag.Pos.String()))
	}

	if diag.Expr != "" {
		attrs = append(attrs, slog.String("expr", diag.Expr))
	}

	if diag.Type != "" {
		attrs = append(attrs, slog.String("type", diag.Type))
	}

	if diag.Entity != "" {
		attrs = append(attrs, slog.String("entity", diag.Entity))
	}

	if len(diag.Suggestions) > 0 {
		attrs = append(attrs, slog.Any("suggestions", diag.Suggestions))
	}

	logger.LogAttrs(context.Background(), level, diag.Message, attrs...)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
