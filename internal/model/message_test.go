package model

import (
	"testing"
	"time"
)

func mkMsg(topic, payload string) *Message {
	return &Message{Topic: topic, Payload: []byte(payload), ReceivedAt: time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC)}
}

func TestLinesTextPayload(t *testing.T) {
	m := mkMsg("home/kitchen/temp", "21.5\nrising")
	rows := m.Lines()
	if len(rows) != 3 {
		t.Fatalf("rows: %d", len(rows))
	}
	if rows[0].Text != "home/kitchen/temp" || rows[0].Style != StyleHeader || rows[0].Indent != 0 {
		t.Fatalf("header row: %+v", rows[0])
	}
	if rows[1].Text != "21.5" || rows[1].Indent != 1 || rows[1].Style != StyleText {
		t.Fatalf("content row: %+v", rows[1])
	}
	if rows[2].Text != "rising" {
		t.Fatalf("content row: %+v", rows[2])
	}
	for _, r := range rows {
		if r.Origin.Msg != m || r.Origin.Node != nil {
			t.Fatalf("origin: %+v", r.Origin)
		}
	}
}

func TestLinesBinaryPayload(t *testing.T) {
	m := &Message{Topic: "z", Payload: []byte{0xFF, 0xFE}}
	rows := m.Lines()
	if len(rows) != 2 {
		t.Fatalf("rows: %d", len(rows))
	}
	if rows[0].Text != "z" || rows[0].Style != StyleHeader {
		t.Fatalf("header row: %+v", rows[0])
	}
	if rows[1].Text != "payload not decodable as UTF-8" || rows[1].Style != StyleError || rows[1].Indent != 1 {
		t.Fatalf("placeholder row: %+v", rows[1])
	}
}

func TestDetails(t *testing.T) {
	m := mkMsg("a/b", "on")
	m.Retain = true
	m.QoS = 2
	rows := m.Details()
	if len(rows) != 5 {
		t.Fatalf("rows: %d", len(rows))
	}
	if rows[2].Text != "" || rows[2].Style != StyleMeta {
		t.Fatalf("separator: %+v", rows[2])
	}
	if rows[3].Text != "09:30:15" {
		t.Fatalf("time row: %q", rows[3].Text)
	}
	if rows[4].Text != "retain: true; QoS: 2" {
		t.Fatalf("meta row: %q", rows[4].Text)
	}
}
