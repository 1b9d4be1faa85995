package model

import (
	"fmt"
	"time"
)

// ModeKind enumerates the time-range presets of a search.
type ModeKind int

const (
	ModeTail ModeKind = iota
	ModeOneMinute
	ModeThirtyMinutes
	ModeOneHour
	ModeTwelveHours
	ModeFromTo
)

// DateFormat is the layout accepted for custom from/to input.
const DateFormat = "2006-01-02 15:04:05"

// ModeKinds lists every mode in dialog order.
var ModeKinds = []ModeKind{ModeTail, ModeOneMinute, ModeThirtyMinutes, ModeOneHour, ModeTwelveHours, ModeFromTo}

// Label returns the human-readable name of the mode kind.
func (k ModeKind) Label() string {
	switch k {
	case ModeTail:
		return "tail"
	case ModeOneMinute:
		return "1 minute"
	case ModeThirtyMinutes:
		return "30 minutes"
	case ModeOneHour:
		return "1 hour"
	case ModeTwelveHours:
		return "12 hours"
	case ModeFromTo:
		return "custom (from to)"
	}
	return "unknown"
}

// SearchMode is a time-range mode. From and To are only meaningful for
// ModeFromTo.
type SearchMode struct {
	Kind ModeKind
	From *int64
	To   *int64
}

// FromTo builds a custom range mode; either bound may be nil.
func FromTo(from, to *int64) SearchMode {
	return SearchMode{Kind: ModeFromTo, From: from, To: to}
}

// ResolveRange maps the mode to a concrete millisecond window relative to now.
// Presets leave To open; Tail leaves both bounds open.
func (m SearchMode) ResolveRange(now time.Time) TimeRange {
	back := func(d time.Duration) TimeRange {
		from := now.Add(-d).UnixMilli()
		return TimeRange{From: &from}
	}
	switch m.Kind {
	case ModeOneMinute:
		return back(time.Minute)
	case ModeThirtyMinutes:
		return back(30 * time.Minute)
	case ModeOneHour:
		return back(time.Hour)
	case ModeTwelveHours:
		return back(12 * time.Hour)
	case ModeFromTo:
		return TimeRange{From: copyInt64(m.From), To: copyInt64(m.To)}
	}
	return TimeRange{}
}

// Equal compares modes by value, including custom bounds.
func (m SearchMode) Equal(o SearchMode) bool {
	if m.Kind != o.Kind {
		return false
	}
	if m.Kind != ModeFromTo {
		return true
	}
	return equalInt64(m.From, o.From) && equalInt64(m.To, o.To)
}

func (m SearchMode) String() string {
	if m.Kind != ModeFromTo {
		return m.Kind.Label()
	}
	return fmt.Sprintf("%s ~ %s", formatMillis(m.From), formatMillis(m.To))
}

// SearchCondition is the query plus time-range mode of one pane.
type SearchCondition struct {
	Query string
	Mode  SearchMode
}

// DefaultSearchCondition tails with an empty query.
func DefaultSearchCondition() SearchCondition {
	return SearchCondition{Mode: SearchMode{Kind: ModeTail}}
}

// Equal compares conditions by value.
func (c SearchCondition) Equal(o SearchCondition) bool {
	return c.Query == o.Query && c.Mode.Equal(o.Mode)
}

// IsTail reports whether the condition selects tail mode.
func (c SearchCondition) IsTail() bool {
	return c.Mode.Kind == ModeTail
}

// Summary is the one-line description shown above a pane.
func (c SearchCondition) Summary() string {
	return fmt.Sprintf("query: [%s], mode: [%s]", c.Query, c.Mode)
}

// ParseDate parses a custom range bound in local time. Empty input yields nil.
func ParseDate(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateFormat, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (want %s)", ErrInvalidDate, s, DateFormat)
	}
	ms := t.UnixMilli()
	return &ms, nil
}

// ErrInvalidDate reports a custom bound that does not match DateFormat.
var ErrInvalidDate = &searchError{"invalid date"}

// ErrStartAfterEnd represents a custom range whose from is after its to.
var ErrStartAfterEnd = &searchError{"start is after end"}

type searchError struct{ s string }

func (e *searchError) Error() string { return e.s }

// ParseFromTo parses both custom bounds and validates their order.
func ParseFromTo(from, to string) (SearchMode, error) {
	f, err := ParseDate(from)
	if err != nil {
		return SearchMode{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return SearchMode{}, err
	}
	if f != nil && t != nil && *f > *t {
		return SearchMode{}, ErrStartAfterEnd
	}
	return FromTo(f, t), nil
}

func formatMillis(ms *int64) string {
	if ms == nil {
		return ""
	}
	return time.UnixMilli(*ms).Format(DateFormat)
}

func copyInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalInt64(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
