package model

// LogEvents is the ordered, deduplicated list of records shown in one pane.
// A trailing sentinel marks that more pages exist.
type LogEvents struct {
	items  []LogRecord
	opened map[int]struct{}
}

// NewLogEvents returns a collection seeded with items.
func NewLogEvents(items []LogRecord) *LogEvents {
	return &LogEvents{items: items, opened: map[int]struct{}{}}
}

// Push merges a fetched page. Leading records whose IDs are already present
// are skipped; the suffix starting at the first unseen ID is appended. When
// the page holds no unseen ID nothing is appended. stitched is false when a
// non-empty collection receives a page sharing no ID with it.
func (e *LogEvents) Push(page []LogRecord, hasMore, expandAll bool) (appended int, stitched bool) {
	e.stripMore()
	if e.opened == nil {
		e.opened = map[int]struct{}{}
	}

	seen := make(map[string]struct{}, len(e.items))
	for _, it := range e.items {
		seen[it.ID] = struct{}{}
	}

	stitched = true
	start := -1
	if len(e.items) == 0 {
		start = 0
	} else {
		overlap := false
		for i, rec := range page {
			if _, ok := seen[rec.ID]; ok {
				overlap = true
				continue
			}
			if start < 0 {
				start = i
			}
		}
		stitched = overlap || len(page) == 0
	}

	if start >= 0 {
		for _, rec := range page[start:] {
			if rec.IsSentinel() {
				continue
			}
			if _, dup := seen[rec.ID]; dup {
				continue
			}
			seen[rec.ID] = struct{}{}
			if expandAll {
				e.opened[len(e.items)] = struct{}{}
			}
			e.items = append(e.items, rec)
			appended++
		}
	}

	if hasMore {
		e.items = append(e.items, moreLogEvent())
	}
	return appended, stitched
}

// Reset drops every record and opened row.
func (e *LogEvents) Reset() {
	e.items = nil
	e.opened = map[int]struct{}{}
}

// HasMoreItem reports whether the last element is the sentinel.
func (e *LogEvents) HasMoreItem() bool {
	if len(e.items) == 0 {
		return false
	}
	return e.items[len(e.items)-1].IsSentinel()
}

// Len counts records including the sentinel.
func (e *LogEvents) Len() int {
	return len(e.items)
}

// Record returns the record at i.
func (e *LogEvents) Record(i int) (LogRecord, bool) {
	if i < 0 || i >= len(e.items) {
		return LogRecord{}, false
	}
	return e.items[i], true
}

// Records returns a copy of all records including the sentinel.
func (e *LogEvents) Records() []LogRecord {
	if len(e.items) == 0 {
		return nil
	}
	out := make([]LogRecord, len(e.items))
	copy(out, e.items)
	return out
}

// Toggle flips the opened state of row i. The sentinel cannot be opened.
func (e *LogEvents) Toggle(i int) bool {
	if i < 0 || i >= e.dataLen() {
		return false
	}
	if e.opened == nil {
		e.opened = map[int]struct{}{}
	}
	if _, ok := e.opened[i]; ok {
		delete(e.opened, i)
		return false
	}
	e.opened[i] = struct{}{}
	return true
}

// SetAllOpened opens or closes every data row.
func (e *LogEvents) SetAllOpened(open bool) {
	e.opened = map[int]struct{}{}
	if !open {
		return
	}
	for i := 0; i < e.dataLen(); i++ {
		e.opened[i] = struct{}{}
	}
}

// IsOpened reports whether row i is expanded.
func (e *LogEvents) IsOpened(i int) bool {
	_, ok := e.opened[i]
	return ok
}

// Opened returns a copy of the opened row set.
func (e *LogEvents) Opened() map[int]bool {
	out := make(map[int]bool, len(e.opened))
	for i := range e.opened {
		out[i] = true
	}
	return out
}

func (e *LogEvents) dataLen() int {
	if e.HasMoreItem() {
		return len(e.items) - 1
	}
	return len(e.items)
}

func (e *LogEvents) stripMore() {
	if e.HasMoreItem() {
		e.items = e.items[:len(e.items)-1]
	}
}
