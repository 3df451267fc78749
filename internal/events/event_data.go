package events

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// RefreshStartedData contains data for RefreshStarted events
type RefreshStartedData struct {
	RunID  string `json:"run_id"`
	Source string `json:"source"` // "scheduled", "manual", "cli"
}

// EventType returns the event type for RefreshStartedData
func (d *RefreshStartedData) EventType() EventType {
	return RefreshStarted
}

// StateChangedData contains data for StateChanged events
type StateChangedData struct {
	RunID string `json:"run_id"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// EventType returns the event type for StateChangedData
func (d *StateChangedData) EventType() EventType {
	return StateChanged
}

// RefreshCompletedData contains data for RefreshCompleted events
type RefreshCompletedData struct {
	RunID           string   `json:"run_id"`
	TotalValueBase  float64  `json:"total_value_base"`
	WeeklyReturnPct float64  `json:"weekly_return_pct"`
	Warnings        []string `json:"warnings"`
	DurationMs      int64    `json:"duration_ms"`
	SnapshotTaken   bool     `json:"snapshot_taken"`
}

// EventType returns the event type for RefreshCompletedData
func (d *RefreshCompletedData) EventType() EventType {
	return RefreshCompleted
}

// RefreshFailedData contains data for RefreshFailed events
type RefreshFailedData struct {
	RunID       string `json:"run_id"`
	Stage       string `json:"stage"`
	Error       string `json:"error"`
	ConfigError bool   `json:"config_error"`
}

// EventType returns the event type for RefreshFailedData
func (d *RefreshFailedData) EventType() EventType {
	return RefreshFailed
}

// SnapshotCreatedData contains data for SnapshotCreated events
type SnapshotCreatedData struct {
	ID             string  `json:"id"`
	TotalValueBase float64 `json:"total_value_base"`
	ISOYear        int     `json:"iso_year"`
	ISOWeek        int     `json:"iso_week"`
}

// EventType returns the event type for SnapshotCreatedData
func (d *SnapshotCreatedData) EventType() EventType {
	return SnapshotCreated
}

// BackupCompletedData contains data for BackupCompleted events
type BackupCompletedData struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
}

// EventType returns the event type for BackupCompletedData
func (d *BackupCompletedData) EventType() EventType {
	return BackupCompleted
}
