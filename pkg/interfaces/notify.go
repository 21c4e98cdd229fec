package interfaces

import (
	"context"

	"github.com/medassist-app/medassist/pkg/utils/logging"
)

type NotifyLevel string

const (
	NotifyInfo  NotifyLevel = "info"
	NotifyError NotifyLevel = "error"
)

// Notifier surfaces transient, dismissible messages to the user. Errors are
// never fatal to an orchestrator; they end up here.
type Notifier interface {
	Notify(ctx context.Context, level NotifyLevel, message string)
}

// LogNotifier writes notifications to the context logger. It is the default
// sink for CLI runs and for fire-and-forget tasks with no attached UI.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, level NotifyLevel, message string) {
	logger := logging.From(ctx)
	switch level {
	case NotifyError:
		logger.Error(message)
	default:
		logger.Info(message)
	}
}
