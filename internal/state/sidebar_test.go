package state

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

func groups(names ...string) []model.LogGroupRecord {
	var out []model.LogGroupRecord
	for _, n := range names {
		out = append(out, model.LogGroupRecord{Name: n, ARN: "arn:" + n})
	}
	return out
}

func selectAt(t *testing.T, s *Sidebar, idx int) error {
	t.Helper()
	s.mu.Lock()
	s.cursor = &idx
	s.mu.Unlock()
	_, err := s.ToggleSelection()
	return err
}

func TestSidebarSelectionRemapsByName(t *testing.T) {
	s := NewSidebar()
	s.PushGroups(groups("/aws/lambda/a", "/aws/ecs/b", "/aws/lambda/c"), false)
	if err := selectAt(t, s, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := s.SelectedIndices(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("indices = %v, want [2]", got)
	}
	s.SetFilter("lambda")
	if got := s.SelectedIndices(); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("indices after filter = %v, want [1]", got)
	}
	s.SetFilter("ecs")
	if got := s.SelectedIndices(); len(got) != 0 {
		t.Fatalf("hidden selection should have no index, got %v", got)
	}
	if got := s.SelectedNames(); !reflect.DeepEqual(got, []string{"/aws/lambda/c"}) {
		t.Fatalf("names = %v", got)
	}
	s.SetFilter("")
	if got := s.SelectedIndices(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("indices after clearing filter = %v, want [2]", got)
	}
}

func TestSidebarRejectsFifthSelection(t *testing.T) {
	s := NewSidebar()
	var names []string
	for i := 0; i < 6; i++ {
		names = append(names, fmt.Sprintf("g%d", i))
	}
	s.PushGroups(groups(names...), false)
	for i := 0; i < MaxSelection; i++ {
		if err := selectAt(t, s, i); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
	}
	if err := selectAt(t, s, 4); !errors.Is(err, ErrSelectionFull) {
		t.Fatalf("err = %v, want ErrSelectionFull", err)
	}
	if n := len(s.SelectedNames()); n != MaxSelection {
		t.Fatalf("selected = %d, want %d", n, MaxSelection)
	}
	// deselect frees a slot
	if err := selectAt(t, s, 1); err != nil {
		t.Fatalf("deselect: %v", err)
	}
	if err := selectAt(t, s, 4); err != nil {
		t.Fatalf("select after deselect: %v", err)
	}
	if got := s.SelectedNames(); !reflect.DeepEqual(got, []string{"g0", "g2", "g3", "g4"}) {
		t.Fatalf("names = %v", got)
	}
}

func TestSidebarSentinelNotSelectable(t *testing.T) {
	s := NewSidebar()
	s.PushGroups(groups("a"), true)
	s.Next()
	s.Next()
	changed, err := s.ToggleSelection()
	if changed || err != nil {
		t.Fatalf("sentinel toggle = (%v,%v)", changed, err)
	}
	s.PushGroups(groups("b"), false)
	snap := s.Snapshot()
	if len(snap.Groups) != 2 || snap.Total != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestSidebarCursorFollowsGroupAcrossFilter(t *testing.T) {
	s := NewSidebar()
	s.PushGroups(groups("alpha", "beta", "gamma", "delta"), false)
	s.Next()
	s.Next()
	s.Next()
	if got := s.Snapshot().Cursor; got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	s.SetFilter("a")
	s.SetFilter("mm")
	if got := s.Snapshot().Cursor; got != 0 {
		t.Fatalf("cursor after filter = %d, want 0 (gamma)", got)
	}
	s.SetFilter("zzz")
	if got := s.Snapshot().Cursor; got != -1 {
		t.Fatalf("cursor with empty view = %d, want -1", got)
	}
	s.Previous()
	s.Next()
	if got := s.Snapshot().Cursor; got != -1 {
		t.Fatalf("cursor moved on empty view: %d", got)
	}
}
