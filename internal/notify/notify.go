package notify

import "log"

const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityInfo    = "info"
)

// Notifier is the outbound toast/notification surface. Delivery is
// fire-and-forget; callers never block on it.
type Notifier interface {
	Push(severity, title, description string)
}

// LogNotifier writes notifications to the server log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier { return &LogNotifier{} }

func (n *LogNotifier) Push(severity, title, description string) {
	log.Printf("[Notify] %s: %s - %s", severity, title, description)
}
