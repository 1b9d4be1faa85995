// Package tui is the terminal front end: a Bubble Tea model that routes keys
// to the sidebar, the panes and the search dialog, and turns user actions
// into lane commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/lane"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/state"
	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/util"
)

// Lanes is the worker pool as seen by the UI.
type Lanes interface {
	Allocate() (int, error)
	Free(i int) (lane.FetchCmd, error)
	Send(i int, cmd lane.FetchCmd) error
	FetchGroups(ctx context.Context) error
	Pane(i int) *state.Pane
	Tick()
	Abort(ctx context.Context)
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Lanes        Lanes
	Sidebar      *state.Sidebar
	Status       *state.Status
	Projector    *util.Projector
	TickRate     time.Duration
	TailInterval time.Duration
	FoldSidebar  bool
	Log          logrus.FieldLogger
	// Copy writes to the clipboard; defaults to clipboard.WriteAll.
	Copy func(string) error
}

// openPane is a visible pane: the group it shows and the lane backing it.
type openPane struct {
	group string
	lane  int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	lanes     Lanes
	sidebar   *state.Sidebar
	status    *state.Status
	projector *util.Projector
	tickRate  time.Duration
	log       logrus.FieldLogger
	copy      func(string) error

	// Widgets
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	dialog  searchDialog
	filter  textinput.Model

	// UI state
	width     int
	height    int
	ready     bool
	focus     Focus
	fold      bool
	showHelp  bool
	filtering bool

	// Panes in display order
	panes []openPane

	// Last rendered frames, indexed by lane
	paneSnaps [lane.Size]state.PaneSnapshot
	sideSnap  state.SidebarSnapshot
	statusMsg string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tickRate := opts.TickRate
	if tickRate == 0 {
		tickRate = 250 * time.Millisecond
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	cp := opts.Copy
	if cp == nil {
		cp = clipboard.WriteAll
	}
	status := opts.Status
	if status == nil {
		status = state.NewStatus("")
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	f := textinput.New()
	f.Prompt = "/"
	f.Placeholder = "filter"
	f.CharLimit = 512

	m := Model{
		ctx:       ctx,
		lanes:     opts.Lanes,
		sidebar:   opts.Sidebar,
		status:    status,
		projector: opts.Projector,
		tickRate:  tickRate,
		log:       log,
		copy:      cp,
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		dialog:    newSearchDialog(),
		filter:    f,
		focus:     FocusSidebar,
		fold:      opts.FoldSidebar,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.tickRate),
		m.spinner.Tick,
		fetchGroupsCmd(m.ctx, m.lanes),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		m.refresh()
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickRate)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sentMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.log.WithError(msg.err).WithField("lane", msg.lane).Error("send command failed")
		}
		return m, nil

	case statusMsg:
		m.status.Set(string(msg))
		m.refresh()
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	bodyH := max(m.height-1, 1)
	if m.showHelp {
		h := m.help
		h.ShowAll = true
		body := placeCenter(m.width, bodyH, styleDialog.Render(styleTitle.Render("Keys")+"\n\n"+h.View(m.keys)))
		return body + "\n" + m.renderStatus()
	}

	sideW := sidebarWidth(m.width, m.fold)
	paneW := m.width - sideW
	var main string
	if m.dialog.active {
		main = placeCenter(paneW, bodyH, m.dialog.view(paneW))
	} else {
		main = layoutPanes(len(m.panes), paneW, bodyH, m.renderPaneAt)
	}
	if sideW > 0 {
		side := renderSidebar(sidebarView{
			snap:      m.sideSnap,
			focused:   m.focus.IsSidebar(),
			filtering: m.filtering,
			filter:    m.filter.View(),
			spinner:   m.spinner.View(),
		}, sideW, bodyH)
		main = lipgloss.JoinHorizontal(lipgloss.Top, side, main)
	}
	return main + "\n" + m.renderStatus()
}

func (m Model) renderPaneAt(i, w, h int) string {
	p := m.panes[i]
	return renderPane(paneView{
		snap:      m.paneSnaps[p.lane],
		focused:   m.focus == FocusPane(i),
		spinner:   m.spinner.View(),
		projector: m.projector,
	}, w, h)
}

func (m Model) renderStatus() string {
	return renderStatusBar(m.statusMsg, m.help.ShortHelpView(m.keys.ShortHelp()), m.width)
}

// refresh copies shared state for rendering. A state that is locked keeps
// its previous frame.
func (m *Model) refresh() {
	for _, p := range m.panes {
		if snap, ok := m.lanes.Pane(p.lane).TrySnapshot(); ok {
			m.paneSnaps[p.lane] = snap
		}
	}
	if m.sidebar != nil {
		if snap, ok := m.sidebar.TrySnapshot(); ok {
			m.sideSnap = snap
		}
	}
	if msg, ok := m.status.TryMessage(); ok {
		m.statusMsg = msg
	}
}

// handleKey routes a key to the dialog, the filter input, the focused
// component and finally the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.dialog.active {
		return m.handleDialogKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	var handled bool
	var cmd tea.Cmd
	if m.focus.IsSidebar() {
		m, handled, cmd = m.handleSidebarKey(msg)
	} else {
		m, handled, cmd = m.handlePaneKey(msg)
	}
	if handled {
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Fold):
		m.fold = !m.fold
		if m.fold && m.focus.IsSidebar() && len(m.panes) > 0 {
			m.focus = FocusPane(0)
		}
	case key.Matches(msg, m.keys.Left):
		m.moveFocus(DirLeft)
	case key.Matches(msg, m.keys.Right):
		m.moveFocus(DirRight)
	case key.Matches(msg, m.keys.Up):
		m.moveFocus(DirUp)
	case key.Matches(msg, m.keys.Down):
		m.moveFocus(DirDown)
	}
	return m, nil
}

func (m *Model) moveFocus(dir Direction) {
	next := m.focus.Move(dir, len(m.panes))
	if next.IsSidebar() && m.fold {
		return
	}
	m.focus = next
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Down):
		m.sidebar.Next()
	case key.Matches(msg, m.keys.Prev), key.Matches(msg, m.keys.Up):
		m.sidebar.Previous()
	case key.Matches(msg, m.keys.Select):
		changed, err := m.sidebar.ToggleSelection()
		if err != nil {
			m.status.Set(err.Error())
			return m, true, nil
		}
		if !changed {
			return m, true, nil
		}
		cmd := m.applySelection()
		return m, true, cmd
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.SetValue(m.sidebar.Filter())
		m.filter.CursorEnd()
		return m, true, m.filter.Focus()
	case key.Matches(msg, m.keys.Reload):
		return m, true, fetchGroupsCmd(m.ctx, m.lanes)
	default:
		return m, false, nil
	}
	return m, true, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.sidebar.SetFilter(m.filter.Value())
	return m, cmd
}

// applySelection opens panes for newly selected groups and closes panes of
// deselected ones. Panes follow selection order.
func (m *Model) applySelection() tea.Cmd {
	names := m.sidebar.SelectedNames()
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var cmds []tea.Cmd
	byGroup := make(map[string]openPane, len(m.panes))
	for _, p := range m.panes {
		if wanted[p.group] {
			byGroup[p.group] = p
			continue
		}
		release, err := m.lanes.Free(p.lane)
		if err != nil {
			m.log.WithError(err).WithField("lane", p.lane).Error("free lane failed")
			continue
		}
		m.paneSnaps[p.lane] = state.PaneSnapshot{}
		cmds = append(cmds, m.send(p.lane, release))
	}

	panes := make([]openPane, 0, len(names))
	for _, n := range names {
		if p, ok := byGroup[n]; ok {
			panes = append(panes, p)
			continue
		}
		i, err := m.lanes.Allocate()
		if err != nil {
			m.log.WithError(err).WithField("group", n).Error("allocate lane failed")
			continue
		}
		cond := model.DefaultSearchCondition()
		m.lanes.Pane(i).Assign(n, cond)
		panes = append(panes, openPane{group: n, lane: i})
		cmds = append(cmds, m.send(i, lane.FetchCmd{
			Kind:   lane.FetchPage,
			Group:  n,
			Search: cond,
			Reset:  true,
		}))
	}
	m.panes = panes
	m.focus = m.focus.Clamp(len(m.panes))
	return tea.Batch(cmds...)
}

func (m Model) handlePaneKey(msg tea.KeyMsg) (Model, bool, tea.Cmd) {
	idx := m.focus.Pane()
	if idx >= len(m.panes) {
		return m, false, nil
	}
	p := m.panes[idx]
	pane := m.lanes.Pane(p.lane)

	switch {
	case key.Matches(msg, m.keys.Next):
		pane.MoveCursor(1)
	case key.Matches(msg, m.keys.Prev):
		pane.MoveCursor(-1)
	case key.Matches(msg, m.keys.Top):
		pane.CursorTop()
	case key.Matches(msg, m.keys.Bottom):
		pane.CursorLast()
	case key.Matches(msg, m.keys.Open):
		rec, ok := pane.Current()
		if !ok {
			return m, true, nil
		}
		if !rec.IsSentinel() {
			pane.ToggleCurrent()
			return m, true, nil
		}
		snap := pane.Snapshot()
		if snap.Fetching || snap.NextToken == nil {
			return m, true, nil
		}
		return m, true, m.send(p.lane, lane.FetchCmd{
			Kind:   lane.FetchPage,
			Group:  p.group,
			Cursor: snap.NextToken,
			Search: snap.Search,
		})
	case key.Matches(msg, m.keys.ExpandAll):
		pane.ToggleExpandAll()
	case key.Matches(msg, m.keys.Search):
		m.dialog.open(idx, pane.Snapshot().Search)
	case key.Matches(msg, m.keys.Refetch):
		return m, true, m.send(p.lane, lane.FetchCmd{
			Kind:   lane.FetchPage,
			Group:  p.group,
			Search: pane.Snapshot().Search,
			Reset:  true,
		})
	case key.Matches(msg, m.keys.Yank):
		rec, ok := pane.Current()
		if !ok || rec.IsSentinel() {
			return m, true, nil
		}
		return m, true, copyCmd(m.copy, rec.Message)
	default:
		return m, false, nil
	}
	return m, true, nil
}

func (m Model) handleDialogKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var outcome dialogOutcome
	var cmd tea.Cmd
	m.dialog, outcome, cmd = m.dialog.update(msg, m.keys)
	if outcome != dialogCommitted {
		return m, cmd
	}
	return m, m.commitSearch()
}

// commitSearch refetches the dialog's pane when the condition changed.
func (m *Model) commitSearch() tea.Cmd {
	idx := m.dialog.pane
	if idx >= len(m.panes) {
		return nil
	}
	cond, err := m.dialog.condition()
	if err != nil {
		return nil
	}
	p := m.panes[idx]
	current := m.lanes.Pane(p.lane).Snapshot().Search
	if cond.Equal(current) {
		return nil
	}
	m.status.Set(fmt.Sprintf("%s: %s", p.group, cond.Summary()))
	return m.send(p.lane, lane.FetchCmd{
		Kind:   lane.FetchPage,
		Group:  p.group,
		Search: cond,
		Reset:  true,
	})
}

// Messages

type tickMsg time.Time

type statusMsg string

type sentMsg struct {
	lane int
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// send queues cmd on lane i before returning, so commands for one lane keep
// the order they were issued in. A failure comes back as a sentMsg.
func (m Model) send(i int, cmd lane.FetchCmd) tea.Cmd {
	if err := m.lanes.Send(i, cmd); err != nil {
		return func() tea.Msg { return sentMsg{lane: i, err: err} }
	}
	return nil
}

func fetchGroupsCmd(ctx context.Context, lanes Lanes) tea.Cmd {
	return func() tea.Msg {
		return sentMsg{lane: -1, err: lanes.FetchGroups(ctx)}
	}
}

func copyCmd(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := copyFn(text); err != nil {
			return statusMsg("copy failed: " + err.Error())
		}
		return statusMsg(fmt.Sprintf("copied %d bytes", len(strings.TrimSpace(text))))
	}
}
