// Package inject holds the injectors the keyboard hands its key events to.
package inject

import (
	"log/slog"

	"github.com/dasdy/softkbd/model"
)

// Logger only logs key events. It is the injector used when no bridge is
// attached.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}

	return &Logger{logger: logger}
}

func (l *Logger) Press(content model.Content, modifiers model.KeyboardState) error {
	l.logger.Info("Key pressed", "content", content.String(), "modifiers", modifiers.String())

	return nil
}

func (l *Logger) Release() error {
	l.logger.Debug("Key released")

	return nil
}
