package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
)

// New returns a logger writing to path. The terminal belongs to the UI, so
// nothing is written to stdout or stderr. Warnings and errors are also
// mirrored to status. The returned closer closes the log file.
func New(path string, level log.Level, status *state.Status) (*log.Logger, io.Closer, error) {
	logger := log.New()
	logger.SetLevel(level)
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})

	var closer io.Closer = io.NopCloser(nil)
	if path == "" {
		logger.SetOutput(io.Discard)
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	}
	if status != nil {
		logger.AddHook(NewStatusHook(status))
	}
	return logger, closer, nil
}

// StatusHook is a logrus hook that shows warnings and errors in the status bar.
type StatusHook struct {
	status *state.Status
}

// NewStatusHook returns a hook writing to status.
func NewStatusHook(status *state.Status) *StatusHook {
	return &StatusHook{status: status}
}

func (h *StatusHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

func (h *StatusHook) Fire(entry *log.Entry) error {
	msg := entry.Message
	if err, ok := entry.Data[log.ErrorKey].(error); ok && err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	if g, ok := entry.Data["group"].(string); ok && g != "" {
		msg = fmt.Sprintf("[%s] %s", g, msg)
	}
	h.status.Set(fmt.Sprintf("%s: %s", entry.Level, msg))
	return nil
}
