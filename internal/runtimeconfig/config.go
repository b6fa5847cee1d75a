package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dannyswat/wikirego/internal/markdown"
)

var (
	ErrStorageProviderUnknown   = errors.New("wikirego config: storage provider is invalid")
	ErrStorageDSNRequired       = errors.New("wikirego config: storage dsn is required for sql providers")
	ErrCacheTTLInvalid          = errors.New("wikirego config: cache ttl must be positive when cache is enabled")
	ErrCacheRequiresSQLStorage  = errors.New("wikirego config: cache requires a sql storage provider")
	ErrLoggingProviderRequired  = errors.New("wikirego config: logging provider is required")
	ErrLoggingProviderUnknown   = errors.New("wikirego config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("wikirego config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("wikirego config: logging format is invalid")
	ErrMarkdownExtensionInvalid = errors.New("wikirego config: markdown extension is invalid")
	ErrCommandTimeoutInvalid    = errors.New("wikirego config: command timeout must be zero or positive")
)

// Config aggregates the editor, storage and logging settings of a module.
type Config struct {
	Editor    EditorConfig
	Markdown  MarkdownConfig
	Sanitizer SanitizerConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Logging   LoggingConfig
	Commands  CommandsConfig
}

// EditorConfig toggles paste behaviour of editing sessions.
type EditorConfig struct {
	MarkdownPaste bool
	Preview       bool
}

// MarkdownConfig mirrors interfaces.ParseOptions for the markdown dialog.
type MarkdownConfig struct {
	Extensions     []string
	HardWraps      bool
	HighlightStyle string
}

// SanitizerConfig controls the policy applied before documents are persisted.
type SanitizerConfig struct {
	PersistencePolicy bool
}

// StorageConfig selects where documents are kept.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig wraps the sql repository with go-repository-cache.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CommandsConfig captures command handler behaviour.
type CommandsConfig struct {
	Timeout time.Duration
}

// DefaultConfig keeps documents in memory and logs to the console.
func DefaultConfig() Config {
	return Config{
		Editor: EditorConfig{
			MarkdownPaste: true,
			Preview:       true,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm"},
			HardWraps:  true,
		},
		Sanitizer: SanitizerConfig{
			PersistencePolicy: true,
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	provider := NormalizeProvider(cfg.Storage.Provider)
	switch provider {
	case "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Cache.Enabled {
		if provider == "memory" {
			return ErrCacheRequiresSQLStorage
		}
		if cfg.Cache.DefaultTTL <= 0 {
			return ErrCacheTTLInvalid
		}
	}

	for _, ext := range cfg.Markdown.Extensions {
		if !markdown.IsKnownExtension(ext) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionInvalid, ext)
		}
	}

	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}

	logging := NormalizeProvider(cfg.Logging.Provider)
	if logging == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedLoggingProvider(logging) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logging)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if logging == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// NormalizeProvider lowercases and trims a provider name.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedLoggingProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
