package tui

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
)

// allRows lays out every record and cuts the cursor window from the result.
func allRows(v paneView, width, height int) []string {
	var lines []string
	cursorStart, cursorEnd := -1, -1
	for i, rec := range v.snap.Records {
		block := recordLines(rec, v.snap.Opened[i], v.projector, width)
		if i == v.snap.Cursor {
			cursorStart = len(lines)
			cursorEnd = len(lines) + len(block) - 1
			for j := range block {
				block[j] = styleCursor.Render(block[j])
			}
		}
		lines = append(lines, block...)
	}
	offset := 0
	if cursorEnd >= height {
		offset = min(cursorEnd-height+1, cursorStart)
	}
	return lines[offset:min(offset+height, len(lines))]
}

func eventView(n, cursor int, opened ...int) paneView {
	recs := make([]model.LogRecord, n)
	for i := range recs {
		ts := int64(1_700_000_000_000 + i)
		recs[i] = model.LogRecord{ID: strconv.Itoa(i), Message: fmt.Sprintf("event %d\nsecond\nthird\nfourth", i), Timestamp: &ts}
	}
	open := map[int]bool{}
	for _, i := range opened {
		open[i] = true
	}
	return paneView{snap: state.PaneSnapshot{Records: recs, Opened: open, Cursor: cursor}}
}

func TestVisibleRowsKeepsCursorWindow(t *testing.T) {
	tests := []struct {
		name   string
		view   paneView
		height int
	}{
		{"no cursor", eventView(30, -1), 5},
		{"cursor at top", eventView(30, 0), 5},
		{"cursor in middle", eventView(30, 17), 5},
		{"cursor at end", eventView(30, 29), 5},
		{"fewer rows than height", eventView(3, 1), 10},
		{"cursor row opened", eventView(30, 12, 12), 4},
		{"opened row above cursor", eventView(30, 12, 11), 6},
		{"opened rows before short list", eventView(4, 3, 0, 1), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := visibleRows(tt.view, 40, tt.height)
			want := allRows(tt.view, 40, tt.height)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("rows = %q\nwant %q", got, want)
			}
		})
	}
}

func TestVisibleRowsLaysOutOnlyTheWindow(t *testing.T) {
	v := eventView(10000, 9000)
	rows, laid := layoutWindow(v, 40, 5)
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if laid > 5 {
		t.Fatalf("laid out %d records for a 5 row pane", laid)
	}
	if want := recordLines(v.snap.Records[9000], false, nil, 40)[0]; rows[4] != styleCursor.Render(want) {
		t.Fatalf("last row = %q, want the cursor row", rows[4])
	}

	if _, laid := layoutWindow(eventView(10000, -1), 40, 5); laid > 5 {
		t.Fatalf("laid out %d records without a cursor", laid)
	}
}
