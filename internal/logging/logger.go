package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/seqctl/seqctl/internal/constants"
)

// logFileWriter holds the rotating file writer for cleanup at shutdown.
//
//nolint:gochecknoglobals // CLI-process-lifetime resource, mirrors teacher convention
var logFileWriter io.WriteCloser

var configureOnce sync.Once //nolint:gochecknoglobals // one-time zerolog global config

func configureGlobals() {
	configureOnce.Do(func() {
		zerolog.TimestampFieldName = "ts"
		zerolog.MessageFieldName = "msg"
	})
}

// Init builds the logger used by every seqctl command: a console writer on
// stderr (plain JSON to stderr when NO_COLOR is set), multiplexed with a
// rotating file sink under seqctlDir/logs/seqctl.log. Since a step's shell
// command is arbitrary project-authored text, the file sink is wrapped in
// a FilteringWriter that redacts credential-shaped substrings before they
// reach disk. NewSensitiveDataHook only flags matching messages; console
// output is not redacted.
//
// If seqctlDir is empty (no project resolved yet, e.g. `seqctl init`)
// logging continues on console output alone.
func Init(seqctlDir string, verbose, quiet bool) zerolog.Logger {
	configureGlobals()

	level := zerolog.InfoLevel
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.WarnLevel
	}

	console := consoleWriter()
	writer := io.Writer(console)

	if seqctlDir != "" {
		if fw, err := createLogFileWriter(seqctlDir); err == nil {
			logFileWriter = fw
			writer = zerolog.MultiLevelWriter(console, fw)
		}
	}

	return zerolog.New(writer).Level(level).Hook(NewSensitiveDataHook()).With().Timestamp().Logger()
}

func consoleWriter() io.Writer {
	if os.Getenv("NO_COLOR") != "" {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
}

// filteringWriteCloser wraps a rotating writer with sensitive-data
// filtering so a step's captured stdout/stderr never lands on disk
// unredacted, while still exposing Close for shutdown cleanup.
type filteringWriteCloser struct {
	filter *FilteringWriter
	closer io.Closer
}

func (w *filteringWriteCloser) Write(p []byte) (int, error) { return w.filter.Write(p) }
func (w *filteringWriteCloser) Close() error                { return w.closer.Close() }

func createLogFileWriter(seqctlDir string) (io.WriteCloser, error) {
	logDir := filepath.Join(seqctlDir, "logs")
	if err := os.MkdirAll(logDir, constants.DirPerm); err != nil {
		return nil, err
	}
	lj := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "seqctl.log"),
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   constants.LogCompress,
	}
	return &filteringWriteCloser{filter: NewFilteringWriter(lj), closer: lj}, nil
}

// Close flushes and closes the rotating file sink, if one was opened by
// Init. Safe to call even when no file sink exists.
func Close() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}
