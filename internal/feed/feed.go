// Package feed produces the inbound event stream: a live MQTT broker
// subscription, a replayed JSONL recording, or synthetic demo traffic.
// Sources only ever write to channels; inserting into the topic index is
// the ui loop's job, so index writes and reads never overlap.
package feed

import (
	"context"
	"errors"
	"time"
)

type SourceKind string

const (
	SourceBroker SourceKind = "broker"
	SourceReplay SourceKind = "replay"
	SourceDemo   SourceKind = "demo"
)

// Event is one inbound message before it becomes a model.Message.
type Event struct {
	Topic   string
	Payload []byte
	Retain  bool
	QoS     byte
	When    time.Time
}

type StatusKind int

const (
	StatusConnected StatusKind = iota
	StatusSubscribed
	StatusConnectionLost
	StatusInfo
)

// Status is a connection or subscription event, surfaced verbatim in the
// status line.
type Status struct {
	Kind StatusKind
	Text string
}

type Options struct {
	Source SourceKind

	// Broker source.
	Host            string
	Port            int
	Username        string
	Password        string
	ClientID        string
	TopicFilter     string
	QoS             byte
	ProtocolVersion uint

	// Replay source.
	Path   string
	Follow bool
}

// Open starts the configured source. Events and statuses flow until the
// context is cancelled; a nil error channel read means the source ended.
// Fatal source errors (connect, subscribe, unreadable replay file) arrive
// on the error channel; the caller decides whether to keep the dashboard
// up.
func Open(ctx context.Context, opt Options) (<-chan Event, <-chan Status, <-chan error) {
	events := make(chan Event, 1024)
	statuses := make(chan Status, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(statuses)
		defer close(errs)

		switch opt.Source {
		case SourceBroker:
			runBroker(ctx, opt, events, statuses, errs)
		case SourceReplay:
			runReplay(ctx, opt, events, statuses, errs)
		case SourceDemo:
			runDemo(ctx, events, statuses)
		default:
			errs <- errors.New("unknown source kind")
		}
	}()

	return events, statuses, errs
}
