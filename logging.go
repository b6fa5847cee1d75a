package wikirego

import (
	"github.com/dannyswat/wikirego/internal/logging/console"
	"github.com/dannyswat/wikirego/internal/logging/gologger"
	"github.com/dannyswat/wikirego/internal/runtimeconfig"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

// newLoggerProvider builds the provider named by cfg.Provider. Validate has
// already rejected unknown providers.
func newLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	if runtimeconfig.NormalizeProvider(cfg.Provider) == "gologger" {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	}

	opts := console.Options{}
	if level, ok := console.ParseLevel(cfg.Level); ok {
		opts.MinLevel = &level
	}
	return console.NewProvider(opts), nil
}
