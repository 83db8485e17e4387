package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"mqttop/internal/export"
	"mqttop/internal/filter"
	"mqttop/internal/model"
	"mqttop/internal/util/logx"
	"mqttop/internal/view"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.ctl.Resize(m.contentHeight(), msg.Width)
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil

	case tickMsg:
		if err := m.ctl.Tick(); err != nil {
			// Internal-consistency fault; nothing to recover.
			m.fatal = err
			return m, tea.Quit
		}
		return m, m.scheduleTick()

	case eventMsg:
		if !msg.ok {
			m.lastEvent = "feed ended"
			return m, nil
		}
		m.insert(msg.ev)
		m.drainEvents()
		return m, waitEvent(m.events)

	case statusMsg:
		if !msg.ok {
			return m, nil
		}
		m.lastEvent = msg.st.Text
		logx.Infof("feed: %s", msg.st.Text)
		return m, waitStatus(m.statuses)

	case feedErrMsg:
		if !msg.ok {
			return m, nil
		}
		m.lastEvent = msg.err.Error()
		logx.Errorf("feed: %v", msg.err)
		return m, waitErr(m.errs)

	case toastMsg:
		m.lastMsg = msg.text
		return m, nil

	case explainDoneMsg:
		m.aiBusy = false
		if msg.err != "" {
			m.lastMsg = "explain failed: " + msg.err
			logx.Warnf("explain: %s", msg.err)
			return m, nil
		}
		m.openModal(modalExplain, "Explain", msg.text)
		return m, nil

	case spinner.TickMsg:
		if !m.aiBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.modalActive {
		return m.handleModalKey(msg)
	}
	if m.inlineMode != inlineNone {
		return m.handleInlineKey(msg)
	}

	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return m, tea.Quit
	case keyMatches(msg, km.Continuous):
		m.ctl.SwitchMode(view.ModeContinuous)
		return m, m.refreshNow()
	case keyMatches(msg, km.InPlace):
		m.ctl.SwitchMode(view.ModeInPlace)
		return m, m.refreshNow()
	case keyMatches(msg, km.Topics):
		m.ctl.SwitchMode(view.ModeTopics)
		return m, m.refreshNow()
	case keyMatches(msg, km.Pause):
		m.ctl.TogglePause()
		return m, nil
	case keyMatches(msg, km.Select):
		m.ctl.Select()
		return m, nil
	case keyMatches(msg, km.Up):
		m.ctl.MoveCursor(-1)
		return m, nil
	case keyMatches(msg, km.Down):
		m.ctl.MoveCursor(1)
		return m, nil
	case keyMatches(msg, km.Clear):
		m.ctl.Clear()
		return m, m.refreshNow()
	case keyMatches(msg, km.Search):
		m.inlineMode = inlineSearch
		m.input.Prompt = "/"
		m.input.Placeholder = "search (text or /regex/)"
		m.input.SetValue("")
		m.input.Focus()
		return m, nil
	case keyMatches(msg, km.SearchNext):
		m.searchNext()
		return m, nil
	case keyMatches(msg, km.SearchPrev):
		m.searchPrev()
		return m, nil
	case keyMatches(msg, km.Filter):
		m.inlineMode = inlineFilter
		m.input.Prompt = "filter> "
		m.input.Placeholder = "text, /regex/, or expr: qos >= 1"
		m.input.SetValue(m.criteria.String())
		m.input.Focus()
		return m, nil
	case keyMatches(msg, km.ClearFilter):
		m.criteria = filter.Criteria{}
		m.ctl.SetFilter(nil)
		m.lastMsg = "filter cleared"
		return m, m.refreshNow()
	case keyMatches(msg, km.ExportJSON):
		return m, m.exportRows("jsonl")
	case keyMatches(msg, km.ExportCSV):
		return m, m.exportRows("csv")
	case keyMatches(msg, km.Explain):
		return m, m.explainCursor()
	case keyMatches(msg, km.CopyPayload):
		if sel := m.cursorMessage(); sel != nil {
			copyToClipboard(string(sel.Payload))
			m.lastMsg = "payload copied"
		}
		return m, nil
	case keyMatches(msg, km.AppLogs):
		m.openModal(modalLogs, "Application logs", logx.Dump())
		return m, nil
	case keyMatches(msg, km.Help):
		m.openModal(modalHelp, "Keys", m.renderHelp())
		return m, nil
	}
	return m, nil
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.modalActive = false
		return m, nil
	case tea.KeyRunes:
		if s := msg.String(); s == "q" || (s == "?" && m.modalKind == modalHelp) {
			m.modalActive = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}

func (m *Model) handleInlineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inlineMode = inlineNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		q := strings.TrimSpace(m.input.Value())
		mode := m.inlineMode
		m.inlineMode = inlineNone
		m.input.Blur()
		if mode == inlineSearch {
			m.applySearch(q)
			return m, nil
		}
		return m, m.applyFilter(q)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applySearch(q string) {
	if q == "" {
		m.searchPattern = ""
		return
	}
	if strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") && len(q) > 2 {
		m.searchRegex = true
		m.searchPattern = q[1 : len(q)-1]
	} else {
		m.searchRegex = false
		m.searchPattern = q
	}
	m.searchNext()
}

func (m *Model) applyFilter(q string) tea.Cmd {
	if q == "" {
		m.criteria = filter.Criteria{}
		m.ctl.SetFilter(nil)
		return m.refreshNow()
	}
	crit := filter.Parse(q)
	ev, err := filter.NewEvaluator(crit)
	if err != nil {
		m.lastMsg = "bad filter: " + err.Error()
		return nil
	}
	m.criteria = crit
	m.ctl.SetFilter(ev.Match)
	return m.refreshNow()
}

// refreshNow recomputes the window immediately instead of waiting for the
// next tick, so mode and filter changes feel instant.
func (m *Model) refreshNow() tea.Cmd {
	if err := m.ctl.Tick(); err != nil {
		m.fatal = err
		return tea.Quit
	}
	return nil
}

func (m *Model) cursorMessage() *model.Message {
	if row, ok := m.ctl.CursorRow(); ok {
		return row.Origin.Msg
	}
	return nil
}

// rowMessages collects the distinct messages behind the full row list, in
// row order (which is chronological for the feed views).
func (m *Model) rowMessages() []*model.Message {
	seen := map[*model.Message]bool{}
	var out []*model.Message
	for _, r := range m.ctl.Rows() {
		if r.Origin.Msg != nil && !seen[r.Origin.Msg] {
			seen[r.Origin.Msg] = true
			out = append(out, r.Origin.Msg)
		}
	}
	return out
}

func (m *Model) exportRows(format string) tea.Cmd {
	msgs := m.rowMessages()
	if len(msgs) == 0 {
		m.lastMsg = "nothing to export"
		return nil
	}
	path := export.DefaultPath(format)
	var err error
	if format == "csv" {
		err = export.ToCSV(path, msgs)
	} else {
		err = export.ToJSONL(path, msgs)
	}
	if err != nil {
		m.lastMsg = "export failed: " + err.Error()
		logx.Errorf("export: %v", err)
		return nil
	}
	m.lastMsg = fmt.Sprintf("exported %d messages to %s", len(msgs), path)
	logx.Infof("export: %d messages -> %s", len(msgs), path)
	return nil
}

func (m *Model) explainCursor() tea.Cmd {
	sel := m.cursorMessage()
	if sel == nil {
		m.lastMsg = "no message under cursor"
		return nil
	}
	if m.openai == nil {
		m.lastMsg = "explain unavailable (offline or no API key)"
		return nil
	}
	if m.aiBusy {
		return nil
	}
	m.aiBusy = true
	client := m.openai
	ctx := m.ctx
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		text, err := client.Explain(ctx, sel)
		if err != nil {
			return explainDoneMsg{err: err.Error()}
		}
		return explainDoneMsg{text: text}
	})
}
