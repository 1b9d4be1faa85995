package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nao-Mk2/aws-multi-log-viewer/internal/model"
)

type dialogField int

const (
	fieldQuery dialogField = iota
	fieldModes
	fieldFrom
	fieldTo
	fieldCount
)

type dialogOutcome int

const (
	dialogOpen dialogOutcome = iota
	dialogCommitted
	dialogCancelled
)

// searchDialog edits the search condition of one pane.
type searchDialog struct {
	query      textinput.Model
	from       textinput.Model
	to         textinput.Model
	field      dialogField
	mode       model.ModeKind
	modeCursor int
	err        string
	active     bool
	pane       int
}

func newSearchDialog() searchDialog {
	q := textinput.New()
	q.Placeholder = "filter pattern (empty matches all)"
	q.CharLimit = 512
	q.Prompt = "query: "

	from := textinput.New()
	from.Placeholder = model.DateFormat
	from.CharLimit = len(model.DateFormat)
	from.Prompt = "from:  "

	to := textinput.New()
	to.Placeholder = model.DateFormat
	to.CharLimit = len(model.DateFormat)
	to.Prompt = "to:    "

	return searchDialog{query: q, from: from, to: to}
}

// open shows the dialog for pane, prefilled with cond.
func (d *searchDialog) open(pane int, cond model.SearchCondition) {
	d.active = true
	d.pane = pane
	d.err = ""
	d.mode = cond.Mode.Kind
	d.modeCursor = int(cond.Mode.Kind)
	d.query.SetValue(cond.Query)
	d.from.SetValue(formatBound(cond.Mode.From))
	d.to.SetValue(formatBound(cond.Mode.To))
	d.focus(fieldQuery)
}

func (d *searchDialog) close() {
	d.active = false
	d.query.Blur()
	d.from.Blur()
	d.to.Blur()
}

func (d *searchDialog) focus(f dialogField) {
	d.field = f
	d.query.Blur()
	d.from.Blur()
	d.to.Blur()
	switch f {
	case fieldQuery:
		d.query.Focus()
	case fieldFrom:
		d.from.Focus()
	case fieldTo:
		d.to.Focus()
	}
}

// condition builds the condition currently entered.
func (d searchDialog) condition() (model.SearchCondition, error) {
	cond := model.SearchCondition{Query: strings.TrimSpace(d.query.Value()), Mode: model.SearchMode{Kind: d.mode}}
	if d.mode == model.ModeFromTo {
		mode, err := model.ParseFromTo(strings.TrimSpace(d.from.Value()), strings.TrimSpace(d.to.Value()))
		if err != nil {
			return model.SearchCondition{}, err
		}
		cond.Mode = mode
	}
	return cond, nil
}

// update handles one key while the dialog is open.
func (d searchDialog) update(msg tea.KeyMsg, keys keyMap) (searchDialog, dialogOutcome, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		d.close()
		return d, dialogCancelled, nil
	case key.Matches(msg, keys.Confirm):
		if _, err := d.condition(); err != nil {
			d.err = err.Error()
			return d, dialogOpen, nil
		}
		d.close()
		return d, dialogCommitted, nil
	case key.Matches(msg, keys.Cycle):
		d.focus((d.field + 1) % fieldCount)
		return d, dialogOpen, nil
	}

	var cmd tea.Cmd
	switch d.field {
	case fieldModes:
		switch {
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Prev):
			if d.modeCursor > 0 {
				d.modeCursor--
			}
		case key.Matches(msg, keys.Down), key.Matches(msg, keys.Next):
			if d.modeCursor < len(model.ModeKinds)-1 {
				d.modeCursor++
			}
		case key.Matches(msg, keys.Choose):
			d.mode = model.ModeKinds[d.modeCursor]
			d.err = ""
		}
	case fieldQuery:
		d.query, cmd = d.query.Update(msg)
	case fieldFrom:
		d.from, cmd = d.from.Update(msg)
	case fieldTo:
		d.to, cmd = d.to.Update(msg)
	}
	return d, dialogOpen, cmd
}

func (d searchDialog) view(width int) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Search condition"))
	b.WriteString("\n\n")
	b.WriteString(d.query.View())
	b.WriteString("\n\n")
	for i, k := range model.ModeKinds {
		radio := "( )"
		if k == d.mode {
			radio = "(*)"
		}
		line := fmt.Sprintf("%s %s", radio, k.Label())
		if d.field == fieldModes && i == d.modeCursor {
			line = styleCursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(d.from.View())
	b.WriteString("\n")
	b.WriteString(d.to.View())
	if d.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styleError.Render(d.err))
	}
	b.WriteString("\n\n")
	b.WriteString(styleMuted.Render("tab: next field  space: choose mode  enter: apply  esc: cancel"))

	w := width / 2
	if w < 50 {
		w = min(50, width)
	}
	return styleDialog.Width(w).Render(b.String())
}

func formatBound(ms *int64) string {
	if ms == nil {
		return ""
	}
	return time.UnixMilli(*ms).Format(model.DateFormat)
}

func placeCenter(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
