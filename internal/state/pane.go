package state

import (
	"sync"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

// Pane holds the mutable state of one log-event pane. It is shared between
// the UI loop and the lane's fetch and tail actors; every method takes the
// lock once and never calls out while holding it.
type Pane struct {
	mu         sync.Mutex
	events     *model.LogEvents
	nextToken  *string
	fetching   bool
	group      *string
	cursor     *int
	search     model.SearchCondition
	expandAll  bool
	lastErr    error
	generation uint64
}

// NewPane returns an empty pane in tail mode.
func NewPane() *Pane {
	return &Pane{events: model.NewLogEvents(nil), search: model.DefaultSearchCondition()}
}

// Ticket identifies one outstanding fetch. Results are only applied while
// the pane generation still matches.
type Ticket struct {
	Generation uint64
	Group      string
	Cursor     *string
	Search     model.SearchCondition
	// LastTimestamp is the timestamp of the newest record, if any.
	LastTimestamp *int64
	Tail          bool
}

// Result is what a fetch produced.
type Result struct {
	Records []model.LogRecord
	Next    *string
	Err     error
}

// Outcome reports how a result was merged.
type Outcome struct {
	Applied  bool
	Appended int
	Stitched bool
}

// Reset clears records, pagination cursor and row cursor. Any fetch started
// before the reset becomes stale.
func (p *Pane) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Pane) resetLocked() {
	p.events.Reset()
	p.nextToken = nil
	p.cursor = nil
	p.fetching = false
	p.lastErr = nil
	p.generation++
}

// ResetIf resets the pane only while it is still at generation gen.
func (p *Pane) ResetIf(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		return false
	}
	p.resetLocked()
	return true
}

// Generation returns the current generation.
func (p *Pane) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// Release resets the pane and forgets its group, returning it to the state
// of a free lane. It returns the generation the pane had before.
func (p *Pane) Release() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.generation
	p.resetLocked()
	p.group = nil
	p.search = model.DefaultSearchCondition()
	p.expandAll = false
	return prev
}

// Assign binds the pane to a group with the given condition.
func (p *Pane) Assign(group string, cond model.SearchCondition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	p.group = &group
	p.search = cond
}

// BeginFetch marks a paged fetch as in flight, resetting first when asked.
func (p *Pane) BeginFetch(group string, cursor *string, cond model.SearchCondition, reset bool) Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	if reset {
		p.resetLocked()
	}
	p.group = &group
	p.search = cond
	p.fetching = true
	return Ticket{Generation: p.generation, Group: group, Cursor: cursor, Search: cond}
}

// StartTail prepares the pane for tailing group and returns the generation
// the tail owns. It refuses when the pane moved past gen, so a start queued
// before the pane was released cannot bind it again.
func (p *Pane) StartTail(gen uint64, group string, cursor *string, cond model.SearchCondition) (uint64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.generation != gen {
		return 0, false
	}
	p.resetLocked()
	p.group = &group
	p.nextToken = cursor
	p.search = cond
	return p.generation, true
}

// TryBeginTail claims the pane for one tail fetch. It returns false when a
// fetch is already in flight, no group is bound, or the pane moved past gen.
func (p *Pane) TryBeginTail(gen uint64, cond model.SearchCondition) (Ticket, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fetching || p.group == nil || p.generation != gen {
		return Ticket{}, false
	}
	p.fetching = true
	t := Ticket{Generation: p.generation, Group: *p.group, Cursor: p.nextToken, Search: cond, Tail: true}
	recs := p.events.Records()
	for i := len(recs) - 1; i >= 0; i-- {
		if !recs[i].IsSentinel() && recs[i].Timestamp != nil {
			ts := *recs[i].Timestamp
			t.LastTimestamp = &ts
			break
		}
	}
	return t, true
}

// Complete applies a fetch result. Stale tickets are dropped without touching
// the pane.
func (p *Pane) Complete(t Ticket, res Result) Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t.Generation != p.generation {
		return Outcome{}
	}
	p.fetching = false
	if res.Err != nil {
		p.lastErr = res.Err
		return Outcome{Applied: true, Stitched: true}
	}
	p.lastErr = nil
	appended, stitched := p.events.Push(res.Records, res.Next != nil && !t.Tail, p.expandAll)
	p.nextToken = res.Next
	if t.Tail && p.events.Len() > 0 {
		last := p.events.Len() - 1
		p.cursor = &last
	}
	return Outcome{Applied: true, Appended: appended, Stitched: stitched}
}

// IsFetching reports whether a fetch is in flight.
func (p *Pane) IsFetching() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetching
}

// HasMore is true while the service returned a continuation token.
func (p *Pane) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextToken != nil
}

// SetFetching overrides the in-flight flag.
func (p *Pane) SetFetching(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetching = v
}

// MoveCursor moves the row cursor by delta, clamped to the rows.
func (p *Pane) MoveCursor(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.events.Len()
	if n == 0 {
		p.cursor = nil
		return
	}
	pos := 0
	if p.cursor != nil {
		pos = *p.cursor + delta
	} else if delta < 0 {
		pos = n - 1
	}
	pos = clamp(pos, 0, n-1)
	p.cursor = &pos
}

// CursorTop moves the row cursor to the first row.
func (p *Pane) CursorTop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events.Len() == 0 {
		return
	}
	pos := 0
	p.cursor = &pos
}

// CursorLast moves the row cursor to the last row.
func (p *Pane) CursorLast() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events.Len() == 0 {
		return
	}
	pos := p.events.Len() - 1
	p.cursor = &pos
}

// Current returns the record under the row cursor.
func (p *Pane) Current() (model.LogRecord, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor == nil {
		return model.LogRecord{}, false
	}
	return p.events.Record(*p.cursor)
}

// ToggleCurrent opens or closes the row under the cursor.
func (p *Pane) ToggleCurrent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cursor != nil {
		p.events.Toggle(*p.cursor)
	}
}

// ToggleExpandAll flips expand-all and applies it to existing rows.
func (p *Pane) ToggleExpandAll() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expandAll = !p.expandAll
	p.events.SetAllOpened(p.expandAll)
	return p.expandAll
}

// PaneSnapshot is a consistent copy of a pane for rendering.
type PaneSnapshot struct {
	Records   []model.LogRecord
	Opened    map[int]bool
	Cursor    int // -1 when unset
	Fetching  bool
	Group     string
	Search    model.SearchCondition
	NextToken *string
	ExpandAll bool
	Err       error
}

// HasMore is true while the service returned a continuation token.
func (s PaneSnapshot) HasMore() bool {
	return s.NextToken != nil
}

// Snapshot copies the pane, blocking on the lock.
func (p *Pane) Snapshot() PaneSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// TrySnapshot copies the pane only when the lock is free.
func (p *Pane) TrySnapshot() (PaneSnapshot, bool) {
	if !p.mu.TryLock() {
		return PaneSnapshot{}, false
	}
	defer p.mu.Unlock()
	return p.snapshotLocked(), true
}

func (p *Pane) snapshotLocked() PaneSnapshot {
	s := PaneSnapshot{
		Records:   p.events.Records(),
		Opened:    p.events.Opened(),
		Cursor:    -1,
		Fetching:  p.fetching,
		Search:    p.search,
		NextToken: p.nextToken,
		ExpandAll: p.expandAll,
		Err:       p.lastErr,
	}
	if p.cursor != nil {
		s.Cursor = *p.cursor
	}
	if p.group != nil {
		s.Group = *p.group
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
