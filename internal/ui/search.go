package ui

import (
	"regexp"
	"strings"

	"mqttop/internal/model"
)

func (m *Model) searchNext() {
	m.searchFrom(1)
}

func (m *Model) searchPrev() {
	m.searchFrom(-1)
}

// searchFrom walks the full row list from the row under the cursor in the
// given direction, wrapping around, and jumps to the first match.
func (m *Model) searchFrom(dir int) {
	if m.searchPattern == "" {
		return
	}
	rows := m.ctl.Rows()
	n := len(rows)
	if n == 0 {
		return
	}
	start := m.ctl.WindowStart() + m.ctl.Cursor()
	for i := 1; i <= n; i++ {
		idx := ((start+dir*i)%n + n) % n
		if m.rowMatchesSearch(rows[idx]) {
			m.ctl.JumpTo(idx)
			return
		}
	}
	m.lastMsg = "no match for " + m.searchPattern
}

func (m *Model) rowMatchesSearch(r model.Row) bool {
	if m.searchRegex {
		re, err := regexp.Compile(m.searchPattern)
		if err != nil {
			return false
		}
		return re.MatchString(r.Text)
	}
	return strings.Contains(strings.ToLower(r.Text), strings.ToLower(m.searchPattern))
}
