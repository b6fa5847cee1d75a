package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dannyswat/wikirego/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if !cfg.Editor.MarkdownPaste || !cfg.Editor.Preview {
		t.Fatalf("expected markdown paste and preview enabled by default")
	}
	if cfg.Storage.Provider != "memory" {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Provider)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown storage provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "redis" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name:   "sqlite without dsn",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "sqlite" },
			want:   runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name: "postgres with dsn",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = " Postgres "
				cfg.Storage.DSN = "postgres://localhost/wiki"
			},
		},
		{
			name:   "cache on memory storage",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Cache.Enabled = true },
			want:   runtimeconfig.ErrCacheRequiresSQLStorage,
		},
		{
			name: "cache without ttl",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Storage.Provider = "sqlite"
				cfg.Storage.DSN = "file:wiki.db"
				cfg.Cache.Enabled = true
				cfg.Cache.DefaultTTL = 0
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "unknown markdown extension",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Markdown.Extensions = []string{"gfm", "mermaid"} },
			want:   runtimeconfig.ErrMarkdownExtensionInvalid,
		},
		{
			name:   "negative command timeout",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Commands.Timeout = -time.Second },
			want:   runtimeconfig.ErrCommandTimeoutInvalid,
		},
		{
			name:   "missing logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = " " },
			want:   runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name:   "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name:   "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Logging.Level = "verbose" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
		{
			name: "console ignores format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Format = "xml"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
