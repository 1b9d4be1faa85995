package model

import (
	"fmt"
	"reflect"
	"testing"
)

func logGroups(from, to int, more bool) []LogGroupRecord {
	var out []LogGroupRecord
	for i := from; i <= to; i++ {
		out = append(out, LogGroupRecord{Name: fmt.Sprintf("log_group_%d", i), ARN: fmt.Sprintf("arn_%d", i)})
	}
	if more {
		out = append(out, LogGroupRecord{Name: MoreLogGroupName, ARN: MoreLogGroupARN})
	}
	return out
}

func TestLogGroupsPush(t *testing.T) {
	tests := []struct {
		name    string
		seed    []LogGroupRecord
		page    []LogGroupRecord
		hasNext bool
		want    []LogGroupRecord
	}{
		{"replaces sentinel and keeps more", logGroups(0, 2, true), logGroups(3, 5, false), true, logGroups(0, 5, true)},
		{"replaces sentinel on last page", logGroups(0, 2, true), logGroups(3, 5, false), false, logGroups(0, 5, false)},
		{"keeps last item without sentinel", logGroups(0, 2, false), logGroups(3, 3, false), false, logGroups(0, 3, false)},
		{"empty start", nil, logGroups(0, 1, false), true, logGroups(0, 1, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewLogGroups(tt.seed)
			g.Push(tt.page, tt.hasNext)
			if got := g.Items(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("items = %v, want %v", got, tt.want)
			}
			if g.HasMore() != tt.hasNext {
				t.Fatalf("HasMore = %v, want %v", g.HasMore(), tt.hasNext)
			}
		})
	}
}

func TestLogGroupsFilterDoesNotMutate(t *testing.T) {
	g := NewLogGroups(logGroups(0, 12, true))
	got := g.Filter("_1")
	want := []string{"log_group_1", "log_group_10", "log_group_11", "log_group_12"}
	var names []string
	for _, it := range got {
		names = append(names, it.Name)
	}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("Filter = %v, want %v", names, want)
	}
	if g.Len() != 14 {
		t.Fatalf("source mutated: len = %d", g.Len())
	}
	if n := len(g.Filter("LOG")); n != 0 {
		t.Fatalf("filter should be case-sensitive, got %d matches", n)
	}
	if n := len(g.Filter("")); n != 14 {
		t.Fatalf("empty filter = %d, want 14", n)
	}
	if n := len(g.Names()); n != 13 {
		t.Fatalf("Names = %d, want 13", n)
	}
}
