package notify

import (
	"context"
	"log/slog"

	"github.com/taskwell/taskwell-api/internal/domain"
)

// LogNotifier is a Notifier that records notifications in the application
// log. It stands in for a real delivery channel in development and tests.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a new LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{
		logger: logger.With(slog.String("component", "log_notifier")),
	}
}

// Ensure LogNotifier implements the Notifier interface
var _ Notifier = (*LogNotifier)(nil)

// Send implements Notifier.Send.
func (n *LogNotifier) Send(ctx context.Context, user *domain.User, message string) bool {
	n.logger.Info("notification sent",
		slog.String("user_id", user.ID.String()),
		slog.String("message", message))
	return true
}
