package logging

import (
	"context"
	"strings"

	"github.com/dannyswat/wikirego/pkg/interfaces"
)

const (
	rootModule      = "wikirego"
	markdownModule  = "wikirego.markdown"
	editorModule    = "wikirego.editor"
	tablesModule    = "wikirego.tables"
	documentsModule = "wikirego.documents"
)

const (
	fieldDocumentID   = "document_id"
	fieldDocumentSlug = "slug"
	fieldPasteMode    = "paste_mode"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger so services work with logging disabled.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkdownLogger is used by detection and conversion code.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// EditorLogger is used by editing sessions and paste handling.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// TablesLogger is used by table command handlers.
func TablesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tablesModule)
}

// DocumentsLogger is used by the document store and page import.
func DocumentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, documentsModule)
}

// WithDocumentContext adds document identifiers to logger. Empty values are
// skipped.
func WithDocumentContext(logger interfaces.Logger, id, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldDocumentID] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldDocumentSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// WithPasteMode tags logger with the branch a paste event took.
func WithPasteMode(logger interfaces.Logger, mode string) interfaces.Logger {
	if strings.TrimSpace(mode) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldPasteMode: mode})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
