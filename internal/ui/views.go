package ui

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) View() string {
	if m.termWidth == 0 {
		// Before the first WindowSizeMsg there is nothing sensible to draw.
		return ""
	}
	base := m.renderRows() + "\n" + m.renderStatus() + "\n" + m.renderBottom()
	if m.modalActive {
		return overlay(base, m.renderModal())
	}
	return base
}

func (m *Model) renderRows() string {
	h := m.contentHeight()
	vis := m.ctl.Visible()
	lines := make([]string, 0, h)
	for i, r := range vis {
		text := truncate(strings.Repeat("  ", r.Indent)+r.Text, m.termWidth)
		st := m.styles.RowStyle(r.Style)
		if i == m.ctl.Cursor() {
			st = m.styles.Cursor
		}
		lines = append(lines, st.Render(text))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderStatus is the one-line summary: mode (plus selection for detail
// views), live message counter, active filter, and the most recent
// connection or subscription event.
func (m *Model) renderStatus() string {
	mode := m.ctl.Mode().String()
	if sel := m.ctl.Selection(); sel.Node != nil {
		mode += " " + sel.Node.Name()
	} else if sel.Msg != nil {
		mode += " " + sel.Msg.Topic
	}
	parts := []string{"[" + mode + "]", fmt.Sprintf("%d msgs", m.index.Root().History().Total())}
	if m.ctl.Paused() {
		parts = append([]string{"PAUSED"}, parts...)
	}
	if !m.criteria.Empty() {
		parts = append(parts, "filter: "+m.criteria.String())
	}
	if m.lastEvent != "" {
		parts = append(parts, m.lastEvent)
	}
	plain := truncate(strings.Join(parts, " · "), m.termWidth)
	if m.ctl.Paused() {
		return m.styles.StatusWarn.Render(plain)
	}
	return m.styles.Status.Render(plain)
}

func (m *Model) renderBottom() string {
	switch {
	case m.inlineMode != inlineNone:
		return m.input.View()
	case m.aiBusy:
		return m.spin.View() + " explaining…"
	case m.lastMsg != "":
		return m.styles.Hint.Render(truncate(m.lastMsg, m.termWidth))
	}
	hint := "1 feed · 2 latest · 3 topics · enter select · space pause · / search · f filter · ? help · q quit"
	return m.styles.Hint.Render(truncate(hint, m.termWidth))
}

func (m *Model) openModal(kind modalKind, title, body string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 10
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	h := m.termHeight - 8
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w, h)
	m.modalVP.SetContent(lipgloss.NewStyle().Width(w).Render(m.modalBody))
}

func (m *Model) renderModal() string {
	box := m.styles.PopupBox.Render(m.styles.PopupTitle.Render(m.modalTitle) + "\n\n" + m.modalVP.View())
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderHelp() string {
	km := m.keymap
	groups := []struct {
		name string
		keys []struct {
			key  tea.Key
			text string
		}
	}{
		{"Views", []struct {
			key  tea.Key
			text string
		}{
			{km.Continuous, "continuous feed"},
			{km.InPlace, "latest per topic"},
			{km.Topics, "topic tree"},
			{km.Select, "open message / topic under cursor"},
		}},
		{"Navigation", []struct {
			key  tea.Key
			text string
		}{
			{km.Up, "cursor up (older)"},
			{km.Down, "cursor down (newer)"},
			{km.Search, "search visible rows"},
			{km.SearchNext, "next match"},
			{km.SearchPrev, "previous match"},
		}},
		{"Stream", []struct {
			key  tea.Key
			text string
		}{
			{km.Pause, "pause/resume display"},
			{km.Clear, "reset cursor and scroll"},
			{km.Filter, "filter messages"},
			{km.ClearFilter, "clear filter"},
		}},
		{"Actions", []struct {
			key  tea.Key
			text string
		}{
			{km.ExportJSON, "export view as JSONL"},
			{km.ExportCSV, "export view as CSV"},
			{km.Explain, "explain message (OpenAI)"},
			{km.CopyPayload, "copy payload"},
			{km.AppLogs, "application logs"},
			{km.Quit, "quit"},
		}},
	}
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(g.name + "\n")
		for _, k := range g.keys {
			fmt.Fprintf(&b, "  %-7s %s\n", keyLabel(k.key), k.text)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 && k.Runes[0] == ' ' {
			return "space"
		}
		return string(k.Runes)
	case tea.KeyEnter:
		return "enter"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	default:
		return strings.ToLower(k.String())
	}
}

func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	if w == 1 {
		return string(r[:1])
	}
	return string(r[:w-1]) + "…"
}

// overlay draws the popup on top of the base view by replacing lines where
// the overlay has content; whitespace-only overlay lines are transparent.
func overlay(base, over string) string {
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(over, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyToClipboard copies text using OSC52, which works in most terminals.
func copyToClipboard(s string) {
	s = stripANSI(s)
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", enc)
	// Best-effort: write to /dev/tty to avoid clobbering the app's stdout.
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		defer f.Close()
		_, _ = f.WriteString(payload)
		return
	}
	fmt.Fprint(os.Stdout, payload)
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
