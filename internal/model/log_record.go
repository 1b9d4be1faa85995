package model

// MoreLogEventID is the reserved ID of the sentinel record that marks
// additional pages.
const MoreLogEventID = "more"

// LogRecord represents a single log event fetched for a pane.
type LogRecord struct {
	ID        string
	Message   string
	LogStream string
	// Timestamp is epoch milliseconds; nil on the sentinel.
	Timestamp *int64
}

// IsSentinel reports whether r is the "more pages" marker.
func (r LogRecord) IsSentinel() bool {
	return r.ID == MoreLogEventID
}

func moreLogEvent() LogRecord {
	return LogRecord{ID: MoreLogEventID}
}

// TimeRange is an optional [From, To] window in epoch milliseconds.
type TimeRange struct {
	From *int64
	To   *int64
}
