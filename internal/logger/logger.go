package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process logger. DEBUG in the environment lowers the
// level.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return fmt.Sprintf("[%s]", i)
	}

	level := zerolog.InfoLevel
	if _, exists := os.LookupEnv("DEBUG"); exists {
		level = zerolog.DebugLevel
	}

	return zerolog.New(output).With().Timestamp().Logger().Level(level)
}
