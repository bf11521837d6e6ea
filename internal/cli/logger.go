package cli

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/seqctl/seqctl/internal/logging"
)

//nolint:gochecknoglobals // CLI-process-lifetime logger, mirrors teacher convention
var (
	globalLogger   zerolog.Logger
	globalLoggerMu sync.RWMutex
)

// Logger returns the logger initialized by the root command's
// PersistentPreRunE. Calling it before that has run returns a zero-value
// logger that discards output.
func Logger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// initLogger builds and installs the process-wide CLI logger, rooted at
// seqctlDir's logs/ directory when a project has been resolved.
func initLogger(seqctlDir string, verbose, quiet bool) {
	logger := logging.Init(seqctlDir, verbose, quiet)
	globalLoggerMu.Lock()
	globalLogger = logger
	globalLoggerMu.Unlock()
}

// CloseLogFile flushes and closes the rotating log file opened by the
// root command, if any. Deferred from main.
func CloseLogFile() {
	logging.Close()
}
