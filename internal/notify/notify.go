// Package notify collects user-facing notifications: every reported no-op,
// fetch failure, or successful mutation becomes a message with a severity.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is one message for the UI.
type Notification struct {
	ID       string
	Severity Severity
	Message  string
	At       time.Time
}

// maxRecent bounds the retained notification history.
const maxRecent = 50

// Center records notifications and exposes the most recent ones. A disabled
// center drops everything silently so call sites need no guards.
type Center struct {
	enabled bool
	lg      *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	recent []Notification
}

// NewCenter creates a notification center. lg may not be nil.
func NewCenter(enabled bool, lg *zap.Logger) *Center {
	return &Center{enabled: enabled, lg: lg, now: time.Now}
}

// Publish records a notification and logs it.
func (c *Center) Publish(severity Severity, message string) {
	if !c.enabled {
		return
	}

	n := Notification{
		ID:       uuid.New().String(),
		Severity: severity,
		Message:  message,
		At:       c.now(),
	}

	c.mu.Lock()
	c.recent = append(c.recent, n)
	if len(c.recent) > maxRecent {
		c.recent = c.recent[len(c.recent)-maxRecent:]
	}
	c.mu.Unlock()

	lg := c.lg.With(zap.String("severity", string(severity)))
	switch severity {
	case SeverityError:
		lg.Warn("Notification", zap.String("message", message))
	default:
		lg.Info("Notification", zap.String("message", message))
	}
}

// Recent returns the retained notifications, oldest first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.recent))
	copy(out, c.recent)
	return out
}
