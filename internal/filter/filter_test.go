package filter

import (
	"testing"

	"mqttop/internal/model"
)

func msg(topic, payload string, qos byte, retain bool) *model.Message {
	return &model.Message{Topic: topic, Payload: []byte(payload), QoS: qos, Retain: retain}
}

func TestSubstring(t *testing.T) {
	ev, err := NewEvaluator(Parse("kitchen"))
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(msg("home/Kitchen/temp", "21.5", 0, false)) {
		t.Fatalf("case-insensitive topic match failed")
	}
	if !ev.Match(msg("home/hall", "kitchen door open", 0, false)) {
		t.Fatalf("payload match failed")
	}
	if ev.Match(msg("home/garage", "closed", 0, false)) {
		t.Fatalf("unexpected match")
	}
}

func TestRegex(t *testing.T) {
	c := Parse("/temp$/")
	if !c.UseRegex || c.Query != "temp$" {
		t.Fatalf("parse: %+v", c)
	}
	ev, err := NewEvaluator(c)
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(msg("home/kitchen/temp", "", 0, false)) {
		t.Fatalf("regex match failed")
	}
	if ev.Match(msg("home/kitchen/temp/set", "", 0, false)) {
		t.Fatalf("unexpected regex match")
	}
}

func TestExpression(t *testing.T) {
	ev, err := NewEvaluator(Parse("expr: qos >= 1 && retain == false"))
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(msg("a", "x", 1, false)) {
		t.Fatalf("expression match failed")
	}
	if ev.Match(msg("a", "x", 0, false)) {
		t.Fatalf("qos 0 matched")
	}
	if ev.Match(msg("a", "x", 2, true)) {
		t.Fatalf("retained matched")
	}
}

func TestBadExpression(t *testing.T) {
	if _, err := NewEvaluator(Criteria{Expr: "qos >="}); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestBinaryPayloadMatchesTopicOnly(t *testing.T) {
	ev, err := NewEvaluator(Parse("sensor"))
	if err != nil {
		t.Fatal(err)
	}
	if !ev.Match(&model.Message{Topic: "sensor/raw", Payload: []byte{0xFF, 0xFE}}) {
		t.Fatalf("topic match failed for binary payload")
	}
}
