// Package notify defines the outbound notification capability the core
// consumes. Delivery mechanics live outside this service; the core only
// calls Send and treats a false return as a skipped notification.
package notify

import (
	"context"

	"github.com/taskwell/taskwell-api/internal/domain"
)

// Notifier sends a message to a user through some external channel.
type Notifier interface {
	// Send delivers message to user. Returns true when the notification
	// was accepted for delivery.
	Send(ctx context.Context, user *domain.User, message string) bool
}
