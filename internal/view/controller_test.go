package view

import (
	"errors"
	"testing"
	"time"

	"mqttop/internal/model"
)

func mkMsg(topic, payload string) *model.Message {
	return &model.Message{Topic: topic, Payload: []byte(payload), ReceivedAt: time.Unix(1700000000, 0)}
}

func dummyRows(n int) []model.Row {
	rows := make([]model.Row, n)
	for i := range rows {
		rows[i] = model.Row{Text: "r"}
	}
	return rows
}

func TestWindowBounds(t *testing.T) {
	for l := 0; l <= 40; l++ {
		for h := 1; h <= 15; h++ {
			for s := 0; s <= l+5; s++ {
				c := New(model.NewIndex(4), h, 80)
				c.rows = dummyRows(l)
				c.scroll = s
				c.clamp()
				vis := c.Visible()
				want := l
				if h < want {
					want = h
				}
				if len(vis) != want {
					t.Fatalf("l=%d h=%d s=%d: visible %d want %d", l, h, s, len(vis), want)
				}
				maxCursor := want - 1
				if maxCursor < 0 {
					maxCursor = 0
				}
				if c.cursor < 0 || c.cursor > maxCursor {
					t.Fatalf("l=%d h=%d s=%d: cursor %d", l, h, s, c.cursor)
				}
			}
		}
	}
}

func TestMoveCursorAlwaysInRange(t *testing.T) {
	c := New(model.NewIndex(4), 7, 80)
	c.rows = dummyRows(23)
	c.clamp()
	for _, delta := range []int{-3, 10, -50, 4, 4, 4, 4, 100, -1, -1, -100, 2} {
		c.MoveCursor(delta)
		if c.cursor < 0 || c.cursor > 6 {
			t.Fatalf("delta %d: cursor %d", delta, c.cursor)
		}
		if c.scroll < 0 || c.scroll > 16 {
			t.Fatalf("delta %d: scroll %d", delta, c.scroll)
		}
	}
}

func TestWindowAnchoredAtNewestEnd(t *testing.T) {
	c := New(model.NewIndex(4), 10, 80)
	c.rows = make([]model.Row, 25)
	for i := range c.rows {
		c.rows[i] = model.Row{Indent: i}
	}
	c.clamp()
	vis := c.Visible()
	if len(vis) != 10 || vis[0].Indent != 15 || vis[9].Indent != 24 {
		t.Fatalf("window: len=%d first=%d last=%d", len(vis), vis[0].Indent, vis[len(vis)-1].Indent)
	}

	// 20 move-ups from cursor 0 drive scroll to its maximum of 15 and leave
	// the cursor at the top.
	for i := 0; i < 20; i++ {
		c.MoveCursor(-1)
	}
	if c.scroll != 15 || c.cursor != 0 {
		t.Fatalf("after move-ups: scroll=%d cursor=%d", c.scroll, c.cursor)
	}
	vis = c.Visible()
	if vis[0].Indent != 0 || vis[9].Indent != 9 {
		t.Fatalf("window after move-ups: first=%d last=%d", vis[0].Indent, vis[9].Indent)
	}
}

func TestCursorOverflowScrollsBackToNewest(t *testing.T) {
	c := New(model.NewIndex(4), 10, 80)
	c.rows = dummyRows(25)
	c.scroll = 15
	c.clamp()
	c.MoveCursor(12)
	if c.cursor != 9 {
		t.Fatalf("cursor: %d", c.cursor)
	}
	if c.scroll != 12 {
		t.Fatalf("scroll: %d", c.scroll)
	}
	// Walking down repeatedly lands back at the newest window.
	for i := 0; i < 40; i++ {
		c.MoveCursor(1)
	}
	if c.scroll != 0 || c.cursor != 9 {
		t.Fatalf("at newest: scroll=%d cursor=%d", c.scroll, c.cursor)
	}
}

func TestSwitchModeResets(t *testing.T) {
	ix := model.NewIndex(8)
	ix.Insert(mkMsg("a", "1"))
	c := New(ix, 5, 80)
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	c.MoveCursor(1)
	c.TogglePause()
	c.SwitchMode(ModeTopics)
	if c.Mode() != ModeTopics || c.cursor != 0 || c.scroll != 0 || c.Paused() {
		t.Fatalf("state after switch: %+v", c)
	}
	if c.rows != nil {
		t.Fatalf("cached rows survived switch")
	}
}

func TestPauseFreezesDisplayOnly(t *testing.T) {
	ix := model.NewIndex(8)
	ix.Insert(mkMsg("a", "1"))
	c := New(ix, 10, 80)
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	before := len(c.Visible())

	c.TogglePause()
	ix.Insert(mkMsg("a", "2"))
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	if len(c.Visible()) != before {
		t.Fatalf("paused view changed")
	}
	// The store kept accumulating; unpausing catches up.
	c.TogglePause()
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	if len(c.Visible()) != before+2 {
		t.Fatalf("rows after resume: %d", len(c.Visible()))
	}
}

func TestSelectMessageFreezesSnapshot(t *testing.T) {
	ix := model.NewIndex(8)
	m := mkMsg("x", "hello")
	ix.Insert(m)
	c := New(ix, 10, 80)
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	c.Select()
	if c.Mode() != ModeMessageDetail {
		t.Fatalf("mode: %v", c.Mode())
	}
	if c.Selection().Msg != m {
		t.Fatalf("selection: %+v", c.Selection())
	}
	want := len(m.Details())
	if len(c.Visible()) != want {
		t.Fatalf("detail rows: %d want %d", len(c.Visible()), want)
	}
	// New traffic does not touch the snapshot.
	ix.Insert(mkMsg("x", "later"))
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	if len(c.Visible()) != want {
		t.Fatalf("snapshot re-queried")
	}
}

func TestSelectTopicStaysLive(t *testing.T) {
	ix := model.NewIndex(8)
	ix.Insert(mkMsg("a/b", "1"))
	c := New(ix, 20, 80)
	c.SwitchMode(ModeTopics)
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	// Cursor starts on the "a" header row, a node origin.
	c.Select()
	if c.Mode() != ModeTopicDetail {
		t.Fatalf("mode: %v", c.Mode())
	}
	if c.Selection().Node == nil || c.Selection().Node.Name() != "a" {
		t.Fatalf("selection: %+v", c.Selection())
	}
	before := len(c.Visible())

	// Traffic inside the subtree shows up on the next tick; traffic on a
	// sibling does not.
	ix.Insert(mkMsg("a/b", "2"))
	ix.Insert(mkMsg("z", "elsewhere"))
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	after := c.Visible()
	if len(after) != before+2 {
		t.Fatalf("rows: %d want %d", len(after), before+2)
	}
	for _, r := range after {
		if r.Text == "elsewhere" {
			t.Fatalf("sibling traffic leaked into topic detail")
		}
	}
}

func TestSelectOnEmptyWindow(t *testing.T) {
	c := New(model.NewIndex(8), 10, 80)
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	c.Select()
	if c.Mode() != ModeContinuous {
		t.Fatalf("mode changed on empty select")
	}
}

func TestFilterDropsMessageRowsOnly(t *testing.T) {
	ix := model.NewIndex(8)
	ix.Insert(mkMsg("keep/this", "yes"))
	ix.Insert(mkMsg("drop/this", "no"))
	c := New(ix, 20, 80)
	c.SetFilter(func(m *model.Message) bool { return m.Topic == "keep/this" })
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	for _, r := range c.Visible() {
		if r.Origin.Msg != nil && r.Origin.Msg.Topic != "keep/this" {
			t.Fatalf("filtered row leaked: %+v", r)
		}
	}
	if len(c.Visible()) != 2 {
		t.Fatalf("rows: %d", len(c.Visible()))
	}

	// Node-origin rows always pass.
	c.SwitchMode(ModeTopics)
	c.SetFilter(func(*model.Message) bool { return false })
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	if len(c.Visible()) == 0 {
		t.Fatalf("topics view emptied by message filter")
	}
}

func TestResizeReclamps(t *testing.T) {
	c := New(model.NewIndex(4), 10, 80)
	c.rows = dummyRows(25)
	c.scroll = 15
	c.clamp()
	c.Resize(25, 80)
	if c.scroll != 0 {
		t.Fatalf("scroll after grow: %d", c.scroll)
	}
	c.Resize(5, 80)
	if c.cursor < 0 || c.cursor > 4 {
		t.Fatalf("cursor after shrink: %d", c.cursor)
	}
}

func TestClearKeepsMode(t *testing.T) {
	ix := model.NewIndex(8)
	ix.Insert(mkMsg("a", "1"))
	c := New(ix, 5, 80)
	c.SwitchMode(ModeInPlace)
	if err := c.Tick(); err != nil {
		t.Fatal(err)
	}
	c.MoveCursor(1)
	c.TogglePause()
	c.Clear()
	if c.Mode() != ModeInPlace || c.cursor != 0 || c.scroll != 0 || c.Paused() {
		t.Fatalf("state after clear: mode=%v cursor=%d scroll=%d paused=%v", c.Mode(), c.cursor, c.scroll, c.Paused())
	}
}

func TestJumpTo(t *testing.T) {
	c := New(model.NewIndex(4), 10, 80)
	c.rows = make([]model.Row, 25)
	for i := range c.rows {
		c.rows[i] = model.Row{Indent: i}
	}
	c.clamp()
	c.JumpTo(3)
	row, ok := c.CursorRow()
	if !ok || row.Indent != 3 {
		t.Fatalf("jump to 3: %+v ok=%v", row, ok)
	}
	c.JumpTo(24)
	row, ok = c.CursorRow()
	if !ok || row.Indent != 24 {
		t.Fatalf("jump to 24: %+v ok=%v", row, ok)
	}
}

func TestInvalidModeIsFatal(t *testing.T) {
	c := New(model.NewIndex(4), 10, 80)
	c.mode = Mode(42)
	if err := c.Tick(); !errors.Is(err, model.ErrInvalidMode) {
		t.Fatalf("err: %v", err)
	}
}
