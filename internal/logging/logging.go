package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BearBump/ReviewBox/config"
	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelCritical is used for fatal startup diagnostics.
const LevelCritical = slog.Level(12)

const (
	DefaultFile           = "homework_logs.log"
	defaultFileMaxSizeMB  = 2
	defaultFileMaxBackups = 2
)

type Options struct {
	Stdout      io.Writer
	StdoutLevel slog.Level

	// File == "" disables the file handler.
	File           string
	FileLevel      slog.Level
	FileMaxSizeMB  int
	FileMaxBackups int
}

func OptionsFromConfig(cfg config.LoggingConfig) Options {
	opts := Options{
		Stdout:         os.Stdout,
		StdoutLevel:    ParseLevel(cfg.StdoutLevel, slog.LevelDebug),
		File:           cfg.File,
		FileLevel:      ParseLevel(cfg.FileLevel, slog.LevelWarn),
		FileMaxSizeMB:  cfg.FileMaxSizeMB,
		FileMaxBackups: cfg.FileMaxBackups,
	}
	switch opts.File {
	case "":
		opts.File = DefaultFile
	case "-":
		opts.File = ""
	}
	return opts
}

// New builds a logger that writes text lines to stdout and, when a file is
// configured, JSON lines to a size-rotated file. The returned closer releases
// the file.
func New(opts Options) (*slog.Logger, io.Closer) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(opts.Stdout, &slog.HandlerOptions{
			Level:       opts.StdoutLevel,
			ReplaceAttr: replaceLevel,
		}),
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if opts.FileMaxSizeMB <= 0 {
			opts.FileMaxSizeMB = defaultFileMaxSizeMB
		}
		if opts.FileMaxBackups <= 0 {
			opts.FileMaxBackups = defaultFileMaxBackups
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.FileMaxSizeMB,
			MaxBackups: opts.FileMaxBackups,
		}
		handlers = append(handlers, slog.NewJSONHandler(lj, &slog.HandlerOptions{
			Level:       opts.FileLevel,
			AddSource:   true,
			ReplaceAttr: replaceLevel,
		}))
		closer = lj
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer
}

// Critical logs at LevelCritical on the default logger.
func Critical(msg string, args ...any) {
	slog.Default().Log(context.Background(), LevelCritical, msg, args...)
}

func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "critical":
		return LevelCritical
	default:
		return def
	}
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
