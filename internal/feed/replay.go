package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/nxadm/tail"

	"mqttop/internal/util/logx"
)

// record is one line of a replay file, as written by cmd/feedgen. Binary
// payloads use payload_b64; payload wins when both are set.
type record struct {
	Topic      string `json:"topic"`
	Payload    string `json:"payload"`
	PayloadB64 string `json:"payload_b64,omitempty"`
	Retain     bool   `json:"retain"`
	QoS        byte   `json:"qos"`
}

func decodeRecord(line []byte) (Event, error) {
	var r record
	if err := json.Unmarshal(line, &r); err != nil {
		return Event{}, err
	}
	if r.Topic == "" {
		return Event{}, fmt.Errorf("record without topic")
	}
	if r.QoS > 2 {
		return Event{}, fmt.Errorf("qos out of range: %d", r.QoS)
	}
	payload := []byte(r.Payload)
	if r.Payload == "" && r.PayloadB64 != "" {
		b, err := base64.StdEncoding.DecodeString(r.PayloadB64)
		if err != nil {
			return Event{}, fmt.Errorf("payload_b64: %w", err)
		}
		payload = b
	}
	return Event{Topic: r.Topic, Payload: payload, Retain: r.Retain, QoS: r.QoS, When: time.Now()}, nil
}

// runReplay feeds events from a JSONL recording, optionally following the
// file as it grows. Malformed lines are counted and logged, never fatal.
func runReplay(ctx context.Context, opt Options, events chan<- Event, statuses chan<- Status, errs chan<- error) {
	cfg := tail.Config{
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
	}
	if opt.Follow {
		cfg.Follow = true
		cfg.ReOpen = true
	}
	t, err := tail.TailFile(opt.Path, cfg)
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	pushStatus(ctx, statuses, Status{Kind: StatusInfo, Text: "replaying " + opt.Path})

	bad := 0
	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				if bad > 0 {
					logx.Warnf("replay: %d malformed lines in %s", bad, opt.Path)
				}
				return
			}
			if l.Err != nil {
				if l.Err != io.EOF {
					logx.Warnf("replay: %v", l.Err)
				}
				continue
			}
			if len(l.Text) == 0 {
				continue
			}
			ev, err := decodeRecord([]byte(l.Text))
			if err != nil {
				bad++
				logx.Debugf("replay: skipping line: %v", err)
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				t.Stop()
				return
			}
		}
	}
}
