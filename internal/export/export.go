package export

import (
	"bufio"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	"unicode/utf8"

	"mqttop/internal/model"
)

// record is the on-disk shape of one exported message. Text payloads go in
// payload, binary ones in payload_b64; the same shape the replay source
// reads, so exports replay cleanly.
type record struct {
	Topic      string    `json:"topic"`
	Payload    string    `json:"payload,omitempty"`
	PayloadB64 string    `json:"payload_b64,omitempty"`
	Retain     bool      `json:"retain"`
	QoS        byte      `json:"qos"`
	ReceivedAt time.Time `json:"receivedAt"`
}

func toRecord(m *model.Message) record {
	r := record{Topic: m.Topic, Retain: m.Retain, QoS: m.QoS, ReceivedAt: m.ReceivedAt}
	if utf8.Valid(m.Payload) {
		r.Payload = string(m.Payload)
	} else {
		r.PayloadB64 = base64.StdEncoding.EncodeToString(m.Payload)
	}
	return r
}

// ToJSONL writes one JSON object per message, oldest first.
func ToJSONL(path string, msgs []*model.Message) error {
	if len(msgs) == 0 {
		return errors.New("no messages")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	defer bw.Flush()
	for _, m := range msgs {
		b, err := json.Marshal(toRecord(m))
		if err != nil {
			return err
		}
		if _, err := bw.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// ToCSV writes topic/payload/retain/qos/receivedAt columns, oldest first.
// Binary payloads are base64 encoded and flagged in the encoding column.
func ToCSV(path string, msgs []*model.Message) error {
	if len(msgs) == 0 {
		return errors.New("no messages")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"topic", "payload", "encoding", "retain", "qos", "receivedAt"}); err != nil {
		return err
	}
	for _, m := range msgs {
		payload, enc := string(m.Payload), "utf8"
		if !utf8.Valid(m.Payload) {
			payload, enc = base64.StdEncoding.EncodeToString(m.Payload), "base64"
		}
		row := []string{
			m.Topic,
			payload,
			enc,
			strconv.FormatBool(m.Retain),
			strconv.Itoa(int(m.QoS)),
			m.ReceivedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// DefaultPath names an export file in the working directory.
func DefaultPath(format string) string {
	return fmt.Sprintf("mqttop-export-%s.%s", time.Now().Format("20060102-150405"), format)
}
