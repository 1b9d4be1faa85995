package model

import "strings"

// Reserved name and ARN of the log-group sentinel.
const (
	MoreLogGroupName = "More..."
	MoreLogGroupARN  = "more"
)

// LogGroupRecord is a single CloudWatch log group.
type LogGroupRecord struct {
	Name string
	ARN  string
}

// IsSentinel reports whether g is the "more pages" marker.
func (g LogGroupRecord) IsSentinel() bool {
	return g.ARN == MoreLogGroupARN
}

// LogGroups keeps log groups in fetch order with an optional trailing sentinel.
type LogGroups struct {
	items []LogGroupRecord
}

// NewLogGroups returns a collection seeded with items.
func NewLogGroups(items []LogGroupRecord) *LogGroups {
	return &LogGroups{items: items}
}

// Push appends a page, replacing a trailing sentinel. A fresh sentinel is
// added when hasNext is set.
func (g *LogGroups) Push(page []LogGroupRecord, hasNext bool) {
	if g.HasMore() {
		g.items = g.items[:len(g.items)-1]
	}
	for _, it := range page {
		if it.IsSentinel() {
			continue
		}
		g.items = append(g.items, it)
	}
	if hasNext {
		g.items = append(g.items, LogGroupRecord{Name: MoreLogGroupName, ARN: MoreLogGroupARN})
	}
}

// HasMore reports whether the last element is the sentinel.
func (g *LogGroups) HasMore() bool {
	if len(g.items) == 0 {
		return false
	}
	return g.items[len(g.items)-1].IsSentinel()
}

// Filter returns the groups whose name contains query. The receiver is not
// modified, so repeated filtering always starts from the full list.
func (g *LogGroups) Filter(query string) []LogGroupRecord {
	out := make([]LogGroupRecord, 0, len(g.items))
	for _, it := range g.items {
		if strings.Contains(it.Name, query) {
			out = append(out, it)
		}
	}
	return out
}

// Items returns a copy of every group including the sentinel.
func (g *LogGroups) Items() []LogGroupRecord {
	out := make([]LogGroupRecord, len(g.items))
	copy(out, g.items)
	return out
}

// Names lists non-sentinel group names.
func (g *LogGroups) Names() []string {
	names := make([]string, 0, len(g.items))
	for _, it := range g.items {
		if !it.IsSentinel() {
			names = append(names, it.Name)
		}
	}
	return names
}

// Len counts groups including the sentinel.
func (g *LogGroups) Len() int {
	return len(g.items)
}

// Reset drops every group.
func (g *LogGroups) Reset() {
	g.items = nil
}
