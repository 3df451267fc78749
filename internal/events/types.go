// Package events provides the in-process event bus that broadcasts refresh progress.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	RefreshStarted   EventType = "REFRESH_STARTED"
	StateChanged     EventType = "REFRESH_STATE_CHANGED"
	RefreshCompleted EventType = "REFRESH_COMPLETED"
	RefreshFailed    EventType = "REFRESH_FAILED"
	SnapshotCreated  EventType = "SNAPSHOT_CREATED"
	BackupCompleted  EventType = "BACKUP_COMPLETED"
)

// AllTypes lists every event type, in emission order of a refresh
var AllTypes = []EventType{
	RefreshStarted,
	StateChanged,
	RefreshCompleted,
	RefreshFailed,
	SnapshotCreated,
	BackupCompleted,
}

// Event is one published event
type Event struct {
	Type      EventType `json:"type"`
	Module    string    `json:"module"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data,omitempty"`
}
