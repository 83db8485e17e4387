package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Message is one event received from the bus. Immutable after construction;
// the histories it is inserted into share the same instance.
type Message struct {
	Topic      string
	Payload    []byte
	Retain     bool
	QoS        byte
	ReceivedAt time.Time
}

const undecodable = "payload not decodable as UTF-8"

// Lines renders the message as a bold topic header followed by one indented
// row per payload text line. A payload that is not valid UTF-8 collapses to
// a single error-styled placeholder row.
func (m *Message) Lines() []Row {
	rows := []Row{{Text: m.Topic, Style: StyleHeader, Origin: Origin{Msg: m}}}
	if !utf8.Valid(m.Payload) {
		return append(rows, Row{Indent: 1, Text: undecodable, Style: StyleError, Origin: Origin{Msg: m}})
	}
	for _, line := range strings.Split(string(m.Payload), "\n") {
		rows = append(rows, Row{Indent: 1, Text: line, Origin: Origin{Msg: m}})
	}
	return rows
}

// Details is Lines plus a separator and the receipt/delivery metadata.
func (m *Message) Details() []Row {
	rows := m.Lines()
	return append(rows,
		Row{Style: StyleMeta, Origin: Origin{Msg: m}},
		Row{Text: m.ReceivedAt.Format("15:04:05"), Style: StyleMeta, Origin: Origin{Msg: m}},
		Row{Text: fmt.Sprintf("retain: %t; QoS: %d", m.Retain, m.QoS), Style: StyleMeta, Origin: Origin{Msg: m}},
	)
}
