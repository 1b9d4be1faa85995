package state

import (
	"errors"
	"sync"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

// MaxSelection caps how many log groups can be open at once.
const MaxSelection = 4

// ErrSelectionFull is returned when a fifth group would be selected.
var ErrSelectionFull = errors.New("at most 4 log groups can be selected")

// Sidebar is the log-group listing state. Selection is tracked by group name
// so it survives re-filtering; indices are derived from the filtered view.
type Sidebar struct {
	mu       sync.Mutex
	groups   *model.LogGroups
	filtered []model.LogGroupRecord
	filter   string
	selected []string
	cursor   *int
	fetching bool
	lastErr  error
}

// NewSidebar returns an empty sidebar.
func NewSidebar() *Sidebar {
	return &Sidebar{groups: model.NewLogGroups(nil)}
}

// PushGroups appends a fetched page and recomputes the filtered view.
func (s *Sidebar) PushGroups(page []model.LogGroupRecord, hasNext bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, hadCursor := s.cursorNameLocked()
	s.groups.Push(page, hasNext)
	s.refilterLocked(name, hadCursor)
}

// ResetGroups clears the fetched groups, keeping selection and filter.
func (s *Sidebar) ResetGroups() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups.Reset()
	s.refilterLocked("", false)
}

// SetFetching records whether the group listing is loading.
func (s *Sidebar) SetFetching(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetching = v
}

// SetError records the last listing error; nil clears it.
func (s *Sidebar) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// SetFilter changes the filter text. The cursor follows the group it was on
// when that group is still visible.
func (s *Sidebar) SetFilter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text == s.filter {
		return
	}
	name, hadCursor := s.cursorNameLocked()
	s.filter = text
	s.refilterLocked(name, hadCursor)
}

// Filter returns the active filter text.
func (s *Sidebar) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Next moves the cursor down one row.
func (s *Sidebar) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.filtered) == 0 {
		s.cursor = nil
		return
	}
	pos := 0
	if s.cursor != nil {
		pos = clamp(*s.cursor+1, 0, len(s.filtered)-1)
	}
	s.cursor = &pos
}

// Previous moves the cursor up one row.
func (s *Sidebar) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil || len(s.filtered) == 0 {
		return
	}
	pos := clamp(*s.cursor-1, 0, len(s.filtered)-1)
	s.cursor = &pos
}

// ToggleSelection flips the selection of the group under the cursor. The
// sentinel row cannot be selected. Selecting beyond MaxSelection returns
// ErrSelectionFull and leaves the selection unchanged.
func (s *Sidebar) ToggleSelection() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == nil || *s.cursor >= len(s.filtered) {
		return false, nil
	}
	g := s.filtered[*s.cursor]
	if g.IsSentinel() {
		return false, nil
	}
	for i, name := range s.selected {
		if name == g.Name {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return true, nil
		}
	}
	if len(s.selected) >= MaxSelection {
		return false, ErrSelectionFull
	}
	s.selected = append(s.selected, g.Name)
	return true, nil
}

// SelectedNames returns the selected groups in selection order.
func (s *Sidebar) SelectedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// SelectedIndices maps the selection onto the current filtered view.
// Selected groups hidden by the filter have no index.
func (s *Sidebar) SelectedIndices() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedIndicesLocked()
}

func (s *Sidebar) selectedIndicesLocked() []int {
	var out []int
	for i, g := range s.filtered {
		if containsName(s.selected, g.Name) {
			out = append(out, i)
		}
	}
	return out
}

// SidebarSnapshot is a consistent copy of the sidebar for rendering.
type SidebarSnapshot struct {
	Groups   []model.LogGroupRecord
	Selected map[int]bool
	Cursor   int // -1 when unset
	Filter   string
	Fetching bool
	Total    int
	Err      error
}

// Snapshot copies the sidebar, blocking on the lock.
func (s *Sidebar) Snapshot() SidebarSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TrySnapshot copies the sidebar only when the lock is free.
func (s *Sidebar) TrySnapshot() (SidebarSnapshot, bool) {
	if !s.mu.TryLock() {
		return SidebarSnapshot{}, false
	}
	defer s.mu.Unlock()
	return s.snapshotLocked(), true
}

func (s *Sidebar) snapshotLocked() SidebarSnapshot {
	snap := SidebarSnapshot{
		Groups:   append([]model.LogGroupRecord(nil), s.filtered...),
		Selected: map[int]bool{},
		Cursor:   -1,
		Filter:   s.filter,
		Fetching: s.fetching,
		Total:    len(s.groups.Names()),
		Err:      s.lastErr,
	}
	for _, i := range s.selectedIndicesLocked() {
		snap.Selected[i] = true
	}
	if s.cursor != nil {
		snap.Cursor = *s.cursor
	}
	return snap
}

func (s *Sidebar) cursorNameLocked() (string, bool) {
	if s.cursor == nil || *s.cursor >= len(s.filtered) {
		return "", false
	}
	return s.filtered[*s.cursor].Name, true
}

func (s *Sidebar) refilterLocked(cursorName string, hadCursor bool) {
	s.filtered = s.groups.Filter(s.filter)
	if len(s.filtered) == 0 {
		s.cursor = nil
		return
	}
	if !hadCursor {
		if s.cursor != nil {
			pos := clamp(*s.cursor, 0, len(s.filtered)-1)
			s.cursor = &pos
		}
		return
	}
	for i, g := range s.filtered {
		if g.Name == cursorName {
			pos := i
			s.cursor = &pos
			return
		}
	}
	pos := 0
	s.cursor = &pos
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
