// Package view holds the dashboard's view-state machine: mode, cursor,
// scroll, pause, and selection over the topic index, plus the row-window
// computation. It has no rendering or terminal dependency; the ui package
// drives it with discrete commands and renders whatever Visible returns.
package view

import (
	"mqttop/internal/model"
)

// Mode is the active presentation of the index.
type Mode int

const (
	ModeContinuous    Mode = iota // aggregate chronological feed
	ModeInPlace                   // latest message per leaf topic
	ModeTopics                    // tree listing with counts
	ModeTopicDetail               // live feed of one selected subtree
	ModeMessageDetail             // frozen snapshot of one message
)

func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "continuous"
	case ModeInPlace:
		return "in-place"
	case ModeTopics:
		return "topics"
	case ModeTopicDetail:
		return "topic"
	case ModeMessageDetail:
		return "message"
	}
	return "unknown"
}

// Controller derives a bounded, scrollable row window from the index. The
// full row list is recomputed on every unpaused Tick; pausing freezes the
// displayed rows while the index keeps accumulating underneath.
type Controller struct {
	index  *model.Index
	mode   Mode
	cursor int
	scroll int
	paused bool

	sel    model.Origin // selection frozen on entering a detail mode
	frozen []model.Row  // message-detail rows, computed exactly once

	rows   []model.Row // full row list for the active mode
	height int
	width  int

	filter func(*model.Message) bool
}

func New(index *model.Index, height, width int) *Controller {
	return &Controller{index: index, height: height, width: width}
}

func (c *Controller) Mode() Mode              { return c.mode }
func (c *Controller) Paused() bool            { return c.paused }
func (c *Controller) Cursor() int             { return c.cursor }
func (c *Controller) Scroll() int             { return c.scroll }
func (c *Controller) Selection() model.Origin { return c.sel }

// Rows is the full row list behind the current window, oldest first.
func (c *Controller) Rows() []model.Row { return c.rows }

// SwitchMode enters one of the three browse modes, resetting cursor,
// scroll, pause, and selection, and dropping cached rows so the next tick
// recomputes from scratch.
func (c *Controller) SwitchMode(m Mode) {
	c.mode = m
	c.cursor, c.scroll = 0, 0
	c.paused = false
	c.sel = model.Origin{}
	c.frozen = nil
	c.rows = nil
}

// TogglePause flips the pause flag only. The frozen display keeps showing
// the rows from the last unpaused tick; inserts continue underneath.
func (c *Controller) TogglePause() { c.paused = !c.paused }

// Clear re-enters the current mode's initial sub-state without leaving it.
func (c *Controller) Clear() {
	c.cursor, c.scroll = 0, 0
	c.paused = false
}

// MoveCursor shifts the cursor; overshoot in either direction converts to
// scrolling during renormalization.
func (c *Controller) MoveCursor(delta int) {
	c.cursor += delta
	c.clamp()
}

// Resize renormalizes the window against the unchanged row list; mode,
// cursor, and scroll change only as far as clamping requires.
func (c *Controller) Resize(height, width int) {
	c.height, c.width = height, width
	c.clamp()
}

// SetFilter installs a message predicate applied to queried rows before
// windowing; rows that originate from a node always pass. A nil predicate
// removes filtering. Takes effect on the next tick.
func (c *Controller) SetFilter(f func(*model.Message) bool) { c.filter = f }

// Select drills into whatever is under the cursor. A message origin opens
// an immutable detail snapshot; a node origin opens a live per-subtree
// feed, re-queried every unpaused tick.
func (c *Controller) Select() {
	row, ok := c.CursorRow()
	if !ok {
		return
	}
	switch {
	case row.Origin.Msg != nil:
		c.mode = ModeMessageDetail
		c.sel = row.Origin
		c.frozen = row.Origin.Msg.Details()
		c.rows = c.frozen
	case row.Origin.Node != nil:
		c.mode = ModeTopicDetail
		c.sel = row.Origin
		c.frozen = nil
		c.rows, _ = row.Origin.Node.Query(model.QueryContinuous)
		c.rows = c.filtered(c.rows)
	default:
		return
	}
	c.cursor, c.scroll = 0, 0
	c.clamp()
}

// Tick recomputes the full row list for the active mode, unless paused.
// The only possible error is an invalid query mode, a programming defect
// the caller should treat as fatal.
func (c *Controller) Tick() error {
	if c.paused {
		return nil
	}
	return c.refresh()
}

func (c *Controller) refresh() error {
	if c.mode == ModeMessageDetail {
		// Snapshot semantics: computed once on entry, never re-queried.
		c.rows = c.frozen
		c.clamp()
		return nil
	}
	var (
		rows []model.Row
		err  error
	)
	if c.mode == ModeTopicDetail {
		rows, err = c.sel.Node.Query(model.QueryContinuous)
	} else {
		rows, err = c.index.Query(c.browseQuery())
	}
	if err != nil {
		return err
	}
	c.rows = c.filtered(rows)
	c.clamp()
	return nil
}

func (c *Controller) browseQuery() model.QueryMode {
	switch c.mode {
	case ModeContinuous:
		return model.QueryContinuous
	case ModeInPlace:
		return model.QueryInPlace
	case ModeTopics:
		return model.QueryTopics
	}
	return model.QueryMode(-1) // rejected by the index
}

func (c *Controller) filtered(rows []model.Row) []model.Row {
	if c.filter == nil {
		return rows
	}
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if r.Origin.Msg != nil && !c.filter(r.Origin.Msg) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// clamp renormalizes scroll and cursor against the current row list and
// viewport. The window is anchored at the newest end of the list; scroll
// counts rows toward older entries. Cursor overshoot below the top scrolls
// older, overshoot past the bottom scrolls back toward newer.
func (c *Controller) clamp() {
	l, h := len(c.rows), c.height
	maxScroll := l - h
	if maxScroll < 0 {
		maxScroll = 0
	}
	if l < h {
		c.scroll = 0
	}
	if c.scroll > maxScroll {
		c.scroll = maxScroll
	}
	if c.scroll < 0 {
		c.scroll = 0
	}
	visible := l
	if h < visible {
		visible = h
	}
	if visible == 0 {
		c.cursor = 0
		return
	}
	if c.cursor > visible-1 {
		c.scroll -= c.cursor - (visible - 1)
		c.cursor = visible - 1
		if c.scroll < 0 {
			c.scroll = 0
		}
	}
	if c.cursor < 0 {
		c.scroll += -c.cursor
		c.cursor = 0
		if c.scroll > maxScroll {
			c.scroll = maxScroll
		}
	}
}

// Visible is the bounded row window: min(height, len) rows ending scroll
// rows before the newest entry. Each row keeps its origin reference for
// Select.
func (c *Controller) Visible() []model.Row {
	l, h := len(c.rows), c.height
	start := l - h - c.scroll
	if start < 0 {
		start = 0
	}
	visible := l
	if h < visible {
		visible = h
	}
	return c.rows[start : start+visible]
}

// WindowStart is the index into the full row list of the first visible
// row. WindowStart()+Cursor() addresses the row under the cursor.
func (c *Controller) WindowStart() int {
	start := len(c.rows) - c.height - c.scroll
	if start < 0 {
		start = 0
	}
	return start
}

// CursorRow is the row currently under the cursor, if any.
func (c *Controller) CursorRow() (model.Row, bool) {
	vis := c.Visible()
	if c.cursor < 0 || c.cursor >= len(vis) {
		return model.Row{}, false
	}
	return vis[c.cursor], true
}

// JumpTo scrolls so the row at the given index into the full list becomes
// visible and places the cursor on it. Used by search.
func (c *Controller) JumpTo(i int) {
	l, h := len(c.rows), c.height
	if l == 0 || i < 0 || i >= l {
		return
	}
	c.scroll = l - h - i
	if c.scroll < 0 {
		c.scroll = 0
	}
	start := l - h - c.scroll
	if start < 0 {
		start = 0
	}
	c.cursor = i - start
	c.clamp()
}
