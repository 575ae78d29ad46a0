package app

import (
	"io"
	"log/slog"
	"os"
)

// App encapsulates one configured application instance.
type App struct {
	out    io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp creates an App with its own logger. Log output goes to stderr; the
// schedule report goes to outW.
func NewApp(outW io.Writer, config *Config) *App {
	return &App{
		out:    outW,
		logger: newLogger(config.LogLevel, config.LogFormat, os.Stderr),
		config: config,
	}
}
