package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewLogger builds the command logger. REDASM_LOG_LEVEL selects the level
// (debug, info, warn, error); verbose forces debug.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	lg := log.NewWithOptions(w, log.Options{Prefix: "redasm"})
	switch strings.ToLower(os.Getenv("REDASM_LOG_LEVEL")) {
	case "debug":
		lg.SetLevel(log.DebugLevel)
	case "error":
		lg.SetLevel(log.ErrorLevel)
	case "info":
		lg.SetLevel(log.InfoLevel)
	default:
		lg.SetLevel(log.WarnLevel)
	}
	if verbose {
		lg.SetLevel(log.DebugLevel)
	}
	return lg
}
