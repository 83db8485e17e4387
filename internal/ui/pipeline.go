package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"mqttop/internal/feed"
	"mqttop/internal/model"
	"mqttop/internal/util/logx"
)

type tickMsg struct{}
type toastMsg struct{ text string }

type eventMsg struct {
	ev feed.Event
	ok bool
}

type statusMsg struct {
	st feed.Status
	ok bool
}

type feedErrMsg struct {
	err error
	ok  bool
}

type explainDoneMsg struct {
	text string
	err  string
}

func (m *Model) startFeed() tea.Cmd {
	opt := feed.Options{
		Source:          feed.SourceDemo,
		Host:            m.cfg.Broker,
		Port:            m.cfg.Port,
		Username:        m.cfg.Username,
		Password:        m.cfg.Password,
		ClientID:        m.cfg.ClientID,
		TopicFilter:     m.cfg.TopicFilter,
		QoS:             byte(m.cfg.QoS),
		ProtocolVersion: uint(m.cfg.Protocol),
		Path:            m.cfg.ReplayPath,
		Follow:          m.cfg.Follow,
	}
	switch {
	case m.cfg.ReplayPath != "":
		opt.Source = feed.SourceReplay
	case m.cfg.Broker != "":
		opt.Source = feed.SourceBroker
	}
	logx.Infof("feed: source=%s", opt.Source)
	m.events, m.statuses, m.errs = feed.Open(m.ctx, opt)
	return tea.Batch(waitEvent(m.events), waitStatus(m.statuses), waitErr(m.errs))
}

func waitEvent(ch <-chan feed.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		return eventMsg{ev: ev, ok: ok}
	}
}

func waitStatus(ch <-chan feed.Status) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		return statusMsg{st: st, ok: ok}
	}
}

func waitErr(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		err, ok := <-ch
		return feedErrMsg{err: err, ok: ok}
	}
}

// insert turns a feed event into a Message and records it along its topic
// path. Runs on the update loop, never concurrently with queries.
func (m *Model) insert(ev feed.Event) {
	if ev.Topic == "" {
		logx.Debugf("feed: dropping event without topic")
		return
	}
	m.index.Insert(&model.Message{
		Topic:      ev.Topic,
		Payload:    ev.Payload,
		Retain:     ev.Retain,
		QoS:        ev.QoS,
		ReceivedAt: ev.When,
	})
}

// drainEvents absorbs a bounded burst of already-pending events so a busy
// broker cannot starve input handling: one message per channel read would
// mean one Update round-trip per event.
func (m *Model) drainEvents() {
	for i := 0; i < 512; i++ {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return
			}
			m.insert(ev)
		default:
			return
		}
	}
}
