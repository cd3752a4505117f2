package logging

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// QuietUnlessFile is called after clay.InitLogger for commands that draw on the
// terminal themselves. Without a --log-file, the global logger is silenced so
// log lines cannot tear through the UI.
func QuietUnlessFile(logFile string) {
	if strings.TrimSpace(logFile) != "" {
		return
	}
	log.Logger = zerolog.Nop()
}
