package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/taskboard/internal/constants"
)

// Logger is shared by every package. The helpers below are no-ops until
// Init or NewWriterLogger sets it.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default level ("debug", "info", "warn", "error").
	Level string
	// Stderr mirrors log output to stderr even when Debug is off.
	// Long-running commands such as the notifier worker set this.
	Stderr bool
}

// Init logs to a rotated file under ConfigDir/logs, and to stderr when
// Debug or Stderr is set.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	} else if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		level = parsed
	}

	var writer io.Writer = fileWriter
	if cfg.Debug || cfg.Stderr {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		CallerOffset:    2, // skip logAt and the level helper
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// NewWriterLogger points the global logger at w. Tests use it to capture output.
func NewWriterLogger(w io.Writer, level log.Level) *log.Logger {
	Logger = log.NewWithOptions(w, log.Options{Level: level, Prefix: constants.AppName})
	return Logger
}

func logAt(level log.Level, msg string, keyvals []any) {
	if Logger != nil {
		Logger.Log(level, msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...any) { logAt(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...any)  { logAt(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...any)  { logAt(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...any) { logAt(log.ErrorLevel, msg, keyvals) }
