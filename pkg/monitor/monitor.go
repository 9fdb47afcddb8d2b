package monitor

import "time"

// MonitorMessage represents one observed message crossing the API boundary.
type MonitorMessage struct {
	Timestamp   time.Time
	MessageType string // "USER" or "ASSISTANT"
	UserID      string
	Username    string
	Content     string
}

// Monitor defines the behavior of a traffic monitor.
type Monitor interface {
	// Start starts the monitor.
	Start() error

	// Stop stops the monitor.
	Stop() error

	// OnMessage receives and displays a monitoring message.
	OnMessage(msg MonitorMessage)
}
