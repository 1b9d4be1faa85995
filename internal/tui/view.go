package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/util"
)

const minSidebarWidth = 24

// paneView carries what one pane needs to render.
type paneView struct {
	snap      state.PaneSnapshot
	focused   bool
	spinner   string
	projector *util.Projector
}

func renderPane(v paneView, width, height int) string {
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	title := v.snap.Group
	if v.snap.Fetching {
		title = v.spinner + " " + title
	}
	header := []string{
		truncate(styleTitle.Render(title), innerW),
		truncate(styleMuted.Render(v.snap.Search.Summary()), innerW),
	}
	if v.snap.Err != nil {
		header = append(header, truncate(styleError.Render(v.snap.Err.Error()), innerW))
	}

	rowsH := max(innerH-len(header), 0)
	body := visibleRows(v, innerW, rowsH)

	lines := append(header, body...)
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	return frameStyle(v.focused).Width(innerW).Height(innerH).Render(strings.Join(lines[:innerH], "\n"))
}

// visibleRows returns the rows that fit in height and keep the row cursor on
// screen.
func visibleRows(v paneView, width, height int) []string {
	if height == 0 {
		return nil
	}
	if len(v.snap.Records) == 0 {
		return []string{styleMuted.Render("no events")}
	}
	rows, _ := layoutWindow(v, width, height)
	return rows
}

// layoutWindow lays out only the records around the cursor that can reach
// the screen. It returns the rows and how many records it laid out.
func layoutWindow(v paneView, width, height int) ([]string, int) {
	recs := v.snap.Records
	cur := v.snap.Cursor
	block := func(i int) []string {
		b := recordLines(recs[i], v.snap.Opened[i], v.projector, width)
		if i == cur {
			for j := range b {
				b[j] = styleCursor.Render(b[j])
			}
		}
		return b
	}

	var lines []string
	laid := 0
	next := 0
	if cur >= 0 && cur < len(recs) {
		// walk back from the cursor until the screen is full
		cursorLen := 0
		for i := cur; i >= 0; i-- {
			b := block(i)
			laid++
			if i == cur {
				cursorLen = len(b)
			}
			lines = append(b, lines...)
			if len(lines) >= height {
				break
			}
		}
		if len(lines) >= height {
			offset := min(len(lines)-height, len(lines)-cursorLen)
			return lines[offset : offset+height], laid
		}
		next = cur + 1
	}
	for i := next; i < len(recs) && len(lines) < height; i++ {
		lines = append(lines, block(i)...)
		laid++
	}
	return lines[:min(height, len(lines))], laid
}

func recordLines(rec model.LogRecord, opened bool, p *util.Projector, width int) []string {
	if rec.IsSentinel() {
		return []string{styleSentinel.Render(truncate("-- more events (enter to load) --", width))}
	}
	ts := ""
	if rec.Timestamp != nil {
		ts = time.UnixMilli(*rec.Timestamp).Format(model.DateFormat)
	}
	marker := "▸"
	if opened {
		marker = "▾"
	}
	summary := firstLine(rec.Message)
	if v, ok, err := p.Project(rec.Message); err == nil && ok {
		summary = v
	}
	lines := []string{truncate(fmt.Sprintf("%s %s %s", marker, styleMuted.Render(ts), summary), width)}
	if !opened {
		return lines
	}
	if rec.LogStream != "" {
		lines = append(lines, truncate(styleMuted.Render("  stream: "+rec.LogStream), width))
	}
	wrapped := lipgloss.NewStyle().Width(max(width-2, 1)).Render(prettyMessage(rec.Message))
	for _, l := range strings.Split(wrapped, "\n") {
		lines = append(lines, "  "+l)
	}
	return lines
}

func prettyMessage(msg string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(msg)), "", "  "); err == nil {
		return buf.String()
	}
	return strings.TrimRight(msg, "\n")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

func truncate(s string, width int) string {
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// sidebarView carries what the sidebar needs to render.
type sidebarView struct {
	snap      state.SidebarSnapshot
	focused   bool
	filtering bool
	filter    string
	spinner   string
}

func renderSidebar(v sidebarView, width, height int) string {
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	title := fmt.Sprintf("Log groups (%d)", v.snap.Total)
	if v.snap.Fetching {
		title = v.spinner + " " + title
	}
	header := []string{truncate(styleTitle.Render(title), innerW)}
	if v.filtering {
		header = append(header, truncate(v.filter, innerW))
	} else if v.snap.Filter != "" {
		header = append(header, truncate(styleMuted.Render("/"+v.snap.Filter), innerW))
	}
	if v.snap.Err != nil {
		header = append(header, truncate(styleError.Render(v.snap.Err.Error()), innerW))
	}

	rowsH := max(innerH-len(header), 0)
	offset := 0
	if v.snap.Cursor >= rowsH && rowsH > 0 {
		offset = v.snap.Cursor - rowsH + 1
	}
	var rows []string
	for i := offset; i < len(v.snap.Groups) && len(rows) < rowsH; i++ {
		g := v.snap.Groups[i]
		var line string
		switch {
		case g.IsSentinel():
			line = styleSentinel.Render(g.Name)
		case v.snap.Selected[i]:
			line = styleSelected.Render("[x] " + g.Name)
		default:
			line = "[ ] " + g.Name
		}
		line = truncate(line, innerW)
		if i == v.snap.Cursor {
			line = styleCursor.Render(line)
		}
		rows = append(rows, line)
	}

	lines := append(header, rows...)
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	return frameStyle(v.focused).Width(innerW).Height(innerH).Render(strings.Join(lines[:innerH], "\n"))
}

func renderStatusBar(status, hints string, width int) string {
	left := styleMuted.Render(" " + status)
	right := styleMuted.Render(hints + " ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	padding := lipgloss.NewStyle().Width(gap).Render("")
	return styleStatusBar.Width(width).MaxWidth(width).Render(left + padding + right)
}

func sidebarWidth(total int, folded bool) int {
	if folded {
		return 0
	}
	return min(max(total/4, minSidebarWidth), total)
}

// layoutPanes renders pane blocks on the grid used by the focus router.
func layoutPanes(n, width, height int, render func(i, w, h int) string) string {
	switch n {
	case 0:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			styleMuted.Render("select log groups with space in the sidebar"))
	case 1:
		return render(0, width, height)
	}
	leftW := width / 2
	rightW := width - leftW
	topH := height / 2
	bottomH := height - topH
	switch n {
	case 2:
		return lipgloss.JoinHorizontal(lipgloss.Top, render(0, leftW, height), render(1, rightW, height))
	case 3:
		left := lipgloss.JoinVertical(lipgloss.Left, render(0, leftW, topH), render(2, leftW, bottomH))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, render(1, rightW, height))
	default:
		left := lipgloss.JoinVertical(lipgloss.Left, render(0, leftW, topH), render(2, leftW, bottomH))
		right := lipgloss.JoinVertical(lipgloss.Left, render(1, rightW, topH), render(3, rightW, bottomH))
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
}
