package feed

import (
	"context"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"mqttop/internal/util/logx"
)

// runBroker subscribes to the configured broker and forwards every inbound
// message as an Event. There is no reconnection policy: a lost connection
// is reported on the status channel and the dashboard keeps running on
// whatever it has indexed.
func runBroker(ctx context.Context, opt Options, events chan<- Event, statuses chan<- Status, errs chan<- error) {
	clientID := opt.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("mqttop-%d", os.Getpid())
	}

	copts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", opt.Host, opt.Port)).
		SetClientID(clientID).
		SetProtocolVersion(opt.ProtocolVersion).
		SetAutoReconnect(false).
		SetConnectTimeout(10 * time.Second).
		SetCleanSession(true)
	if opt.Username != "" {
		copts.SetUsername(opt.Username)
	}
	if opt.Password != "" {
		copts.SetPassword(opt.Password)
	}
	copts.OnConnect = func(mqtt.Client) {
		pushStatus(ctx, statuses, Status{Kind: StatusConnected, Text: fmt.Sprintf("connected to %s:%d", opt.Host, opt.Port)})
	}
	copts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logx.Warnf("broker: connection lost: %v", err)
		pushStatus(ctx, statuses, Status{Kind: StatusConnectionLost, Text: fmt.Sprintf("connection lost: %v", err)})
	})

	client := mqtt.NewClient(copts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		errs <- fmt.Errorf("connect %s:%d: %w", opt.Host, opt.Port, tok.Error())
		return
	}

	handler := func(_ mqtt.Client, m mqtt.Message) {
		ev := Event{Topic: m.Topic(), Payload: m.Payload(), Retain: m.Retained(), QoS: m.Qos(), When: time.Now()}
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}
	if tok := client.Subscribe(opt.TopicFilter, opt.QoS, handler); tok.Wait() && tok.Error() != nil {
		errs <- fmt.Errorf("subscribe %q: %w", opt.TopicFilter, tok.Error())
		return
	}
	logx.Infof("broker: subscribed to %q qos=%d", opt.TopicFilter, opt.QoS)
	pushStatus(ctx, statuses, Status{Kind: StatusSubscribed, Text: fmt.Sprintf("subscribed to %q", opt.TopicFilter)})

	// Shutdown is immediate on cancellation; no disconnect handshake.
	<-ctx.Done()
}

func pushStatus(ctx context.Context, statuses chan<- Status, s Status) {
	select {
	case statuses <- s:
	case <-ctx.Done():
	}
}
