package feed

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// runDemo emits synthetic traffic over a small topic tree so the dashboard
// is explorable without a broker.
func runDemo(ctx context.Context, events chan<- Event, statuses chan<- Status) {
	pushStatus(ctx, statuses, Status{Kind: StatusInfo, Text: "demo mode (no broker configured)"})

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(400 * time.Millisecond)
	defer ticker.Stop()

	i := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ev := demoEvent(rng, i)
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
			i++
		}
	}
}

func demoEvent(rng *rand.Rand, i int) Event {
	now := time.Now()
	switch i % 5 {
	case 0:
		return Event{
			Topic:   "sensors/kitchen/temp",
			Payload: []byte(fmt.Sprintf(`{"celsius": %.1f, "humidity": %d}`, 18+rng.Float64()*8, 40+rng.Intn(30))),
			When:    now,
		}
	case 1:
		return Event{
			Topic:   "sensors/hall/motion",
			Payload: []byte(fmt.Sprintf("detected=%t", rng.Intn(4) == 0)),
			QoS:     1,
			When:    now,
		}
	case 2:
		return Event{
			Topic:   "meters/power/total",
			Payload: []byte(fmt.Sprintf("%d W", 120+rng.Intn(2400))),
			When:    now,
		}
	case 3:
		return Event{
			Topic:   "status/gateway",
			Payload: []byte("online\nuptime: " + fmt.Sprintf("%dh", 1+i/900)),
			Retain:  true,
			QoS:     1,
			When:    now,
		}
	default:
		// An undecodable payload now and then, to exercise the fallback row.
		return Event{
			Topic:   "sensors/cam/frame",
			Payload: []byte{0xFF, 0xD8, byte(rng.Intn(256)), 0xFE},
			QoS:     2,
			When:    now,
		}
	}
}
