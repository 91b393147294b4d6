// Package logging configures the process-wide apex/log logger.
package logging

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
)

// Setup installs a JSON handler in production and a human-readable one
// otherwise. An unknown level falls back to info.
func Setup(w io.Writer, level string, production bool) {
	if production {
		log.SetHandler(json.New(w))
	} else {
		log.SetHandler(cli.New(w))
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
