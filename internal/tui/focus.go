package tui

// Direction is an arrow key as seen by the focus router.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Focus is either the sidebar or one pane, by display index.
type Focus struct {
	pane int // -1 for the sidebar
}

// FocusSidebar is the sidebar focus.
var FocusSidebar = Focus{pane: -1}

// FocusPane returns the focus on pane i.
func FocusPane(i int) Focus {
	return Focus{pane: i}
}

// IsSidebar reports whether the sidebar has focus.
func (f Focus) IsSidebar() bool {
	return f.pane < 0
}

// Pane returns the focused pane index, or -1 on the sidebar.
func (f Focus) Pane() int {
	return f.pane
}

// Move applies dir on the pane grid holding n panes. Panes are laid out as:
// one pane fills the area; two split vertically; three are left-top,
// right-full and left-bottom; four are quadrants. Moves to a pane that does
// not exist leave the focus unchanged.
func (f Focus) Move(dir Direction, n int) Focus {
	if f.IsSidebar() {
		if dir == DirRight && n > 0 {
			return FocusPane(0)
		}
		return f
	}
	switch dir {
	case DirLeft:
		switch f.pane {
		case 0, 2:
			return FocusSidebar
		case 1:
			return FocusPane(0)
		case 3:
			return FocusPane(2)
		}
	case DirRight:
		switch f.pane {
		case 0:
			if n > 1 {
				return FocusPane(1)
			}
		case 2:
			if n > 3 {
				return FocusPane(3)
			}
			return FocusPane(1)
		}
	case DirDown:
		switch f.pane {
		case 0:
			if n > 2 {
				return FocusPane(2)
			}
		case 1:
			if n > 3 {
				return FocusPane(3)
			}
		}
	case DirUp:
		switch f.pane {
		case 2:
			return FocusPane(0)
		case 3:
			return FocusPane(1)
		}
	}
	return f
}

// Clamp repairs the focus after panes closed.
func (f Focus) Clamp(n int) Focus {
	if f.IsSidebar() {
		return f
	}
	if n == 0 {
		return FocusSidebar
	}
	if f.pane >= n {
		return FocusPane(n - 1)
	}
	return f
}
