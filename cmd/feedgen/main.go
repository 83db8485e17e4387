package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// feedgen writes replay files for mqttop: one JSON record per line, the
// same shape -replay consumes. It never talks to a broker.

type record struct {
	Topic      string `json:"topic"`
	Payload    string `json:"payload,omitempty"`
	PayloadB64 string `json:"payload_b64,omitempty"`
	Retain     bool   `json:"retain,omitempty"`
	QoS        byte   `json:"qos,omitempty"`
}

func main() {
	var (
		outPath     string
		toStdout    bool
		rate        float64
		count       int
		durationStr string
		seed        int64
	)

	flag.StringVar(&outPath, "out", "replay.jsonl", "Output file path")
	flag.BoolVar(&toStdout, "stdout", false, "Write to stdout instead of a file")
	flag.Float64Var(&rate, "rate", 5.0, "Messages per second")
	flag.IntVar(&count, "count", 0, "Stop after this many messages (0 = unlimited)")
	flag.StringVar(&durationStr, "duration", "", "Optional run duration (e.g., 30s, 2m). Empty means run until interrupted")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	abort := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(abort)
	}()

	var deadline time.Time
	if durationStr != "" {
		d, err := time.ParseDuration(durationStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid duration: %v\n", err)
			os.Exit(2)
		}
		deadline = time.Now().Add(d)
	}

	out := os.Stdout
	if !toStdout {
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
		fmt.Fprintf(os.Stderr, "generating replay -> %s at %.2f msg/s\n", outPath, rate)
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	if rate <= 0 {
		rate = 1
	}
	interval := time.Duration(float64(time.Second) / rate)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	written := 0
	for {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return
		}
		if count > 0 && written >= count {
			return
		}
		select {
		case <-abort:
			return
		case <-ticker.C:
			b, _ := json.Marshal(nextRecord(rng, written))
			w.Write(b)
			w.WriteByte('\n')
			_ = w.Flush()
			written++
		}
	}
}

func nextRecord(rng *rand.Rand, i int) record {
	switch i % 6 {
	case 0:
		return record{
			Topic:   "sensors/" + randomRoom(rng) + "/temperature",
			Payload: fmt.Sprintf(`{"value": %.1f, "unit": "C"}`, 15+rng.Float64()*15),
			QoS:     byte(rng.Intn(2)),
		}
	case 1:
		return record{
			Topic:   "sensors/" + randomRoom(rng) + "/humidity",
			Payload: fmt.Sprintf(`{"value": %.0f, "unit": "%%"}`, 30+rng.Float64()*40),
		}
	case 2:
		return record{
			Topic:   "meters/power/total",
			Payload: fmt.Sprintf("%.2f kWh", rng.Float64()*100),
			QoS:     1,
		}
	case 3:
		return record{
			Topic:   "status/" + randomDevice(rng),
			Payload: "online\nuptime: " + fmt.Sprint(rng.Intn(100000)) + "s",
			Retain:  true,
			QoS:     1,
		}
	case 4:
		return record{
			Topic:   "alerts/" + randomDevice(rng),
			Payload: randomAlert(rng),
			QoS:     2,
		}
	default:
		// Binary frame, base64-encoded like a real capture would be.
		frame := make([]byte, 8+rng.Intn(24))
		rng.Read(frame)
		frame[0], frame[1] = 0xFF, 0xD8
		return record{
			Topic:      "sensors/cam/frame",
			PayloadB64: base64.StdEncoding.EncodeToString(frame),
		}
	}
}

func randomRoom(rng *rand.Rand) string {
	rooms := []string{"kitchen", "hall", "garage", "office", "bedroom"}
	return rooms[rng.Intn(len(rooms))]
}

func randomDevice(rng *rand.Rand) string {
	devs := []string{"gateway", "bridge", "relay-1", "relay-2", "hub"}
	return devs[rng.Intn(len(devs))]
}

func randomAlert(rng *rand.Rand) string {
	alerts := []string{
		"battery low",
		"door left open",
		"temperature above threshold",
		"link flapping",
		"firmware update available",
	}
	return alerts[rng.Intn(len(alerts))]
}
