package commands

import (
	"strings"

	"github.com/dannyswat/wikirego/internal/logging"
	"github.com/dannyswat/wikirego/pkg/interfaces"
)

const commandModuleRoot = "wikirego.commands"

// CommandLogger returns a logger scoped to wikirego.commands.<module> with
// the command component fields attached.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
