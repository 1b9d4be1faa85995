package model_test

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

// events builds records with IDs from..to inclusive.
func events(from, to int) []model.LogRecord {
	var out []model.LogRecord
	for i := from; i <= to; i++ {
		ts := int64(1609426800000 + i)
		out = append(out, model.LogRecord{ID: strconv.Itoa(i), Message: "msg" + strconv.Itoa(i), Timestamp: &ts})
	}
	return out
}

func ids(recs []model.LogRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestPushStitchesOverlappingPages(t *testing.T) {
	e := model.NewLogEvents(nil)
	e.Push(events(1, 2), false, false)
	appended, stitched := e.Push(events(2, 4), true, false)
	if appended != 2 || !stitched {
		t.Fatalf("Push = (%d,%v), want (2,true)", appended, stitched)
	}
	want := []string{"1", "2", "3", "4", model.MoreLogEventID}
	if got := ids(e.Records()); !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestPushIsIdempotentForRepeatedPage(t *testing.T) {
	tests := []struct {
		name  string
		seed  []model.LogRecord
		page  []model.LogRecord
		count int
	}{
		{"fresh page", nil, events(0, 3), 4},
		{"overlapping tail", events(0, 3), events(2, 6), 7},
		{"fully duplicate", events(0, 3), events(1, 3), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := model.NewLogEvents(tt.seed)
			e.Push(tt.page, false, false)
			first := ids(e.Records())
			appended, _ := e.Push(tt.page, false, false)
			if appended != 0 {
				t.Fatalf("second Push appended %d records", appended)
			}
			if got := ids(e.Records()); !reflect.DeepEqual(got, first) {
				t.Fatalf("ids after repeat = %v, want %v", got, first)
			}
			if len(first) != tt.count {
				t.Fatalf("len = %d, want %d", len(first), tt.count)
			}
		})
	}
}

func TestPushKeepsIDsDistinct(t *testing.T) {
	e := model.NewLogEvents(nil)
	pages := [][]model.LogRecord{events(0, 4), events(3, 9), events(9, 9), events(10, 12), events(8, 14)}
	for i, p := range pages {
		e.Push(p, i%2 == 0, false)
	}
	seen := map[string]bool{}
	for _, r := range e.Records() {
		if r.IsSentinel() {
			continue
		}
		if seen[r.ID] {
			t.Fatalf("duplicate id %q in %v", r.ID, ids(e.Records()))
		}
		seen[r.ID] = true
	}
	if len(seen) != 15 {
		t.Fatalf("distinct ids = %d, want 15", len(seen))
	}
}

func TestPushSentinelPlacement(t *testing.T) {
	e := model.NewLogEvents(nil)
	e.Push(events(0, 2), true, false)
	if !e.HasMoreItem() {
		t.Fatalf("expected sentinel after push with more pages")
	}
	e.Push(events(2, 5), true, false)
	recs := e.Records()
	for i, r := range recs[:len(recs)-1] {
		if r.IsSentinel() {
			t.Fatalf("sentinel at %d, not last: %v", i, ids(recs))
		}
	}
	e.Push(events(5, 6), false, false)
	if e.HasMoreItem() {
		t.Fatalf("sentinel left after final page: %v", ids(e.Records()))
	}
	if e.Len() != 7 {
		t.Fatalf("Len = %d, want 7", e.Len())
	}
}

func TestPushReportsUnstitchedPage(t *testing.T) {
	e := model.NewLogEvents(events(0, 2))
	appended, stitched := e.Push(events(10, 11), false, false)
	if stitched {
		t.Fatalf("expected unstitched page")
	}
	if appended != 2 {
		t.Fatalf("appended = %d, want 2", appended)
	}
}

func TestPushExpandAllOpensNewRows(t *testing.T) {
	e := model.NewLogEvents(nil)
	e.Push(events(0, 1), false, false)
	e.Push(events(1, 3), true, true)
	want := map[int]bool{2: true, 3: true}
	if got := e.Opened(); !reflect.DeepEqual(got, want) {
		t.Fatalf("opened = %v, want %v", got, want)
	}
}

func TestToggleAndReset(t *testing.T) {
	e := model.NewLogEvents(nil)
	e.Push(events(0, 2), true, false)
	if !e.Toggle(1) || !e.IsOpened(1) {
		t.Fatalf("row 1 should open")
	}
	if e.Toggle(3) {
		t.Fatalf("sentinel row must not open")
	}
	if e.Toggle(1) || e.IsOpened(1) {
		t.Fatalf("row 1 should close")
	}
	e.SetAllOpened(true)
	if len(e.Opened()) != 3 {
		t.Fatalf("SetAllOpened opened %d rows, want 3", len(e.Opened()))
	}
	e.Reset()
	if e.Len() != 0 || len(e.Opened()) != 0 || e.HasMoreItem() {
		t.Fatalf("Reset left state: len=%d opened=%v", e.Len(), e.Opened())
	}
}
