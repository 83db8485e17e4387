package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// MinWidth is the narrowest terminal the dashboard will start in.
const MinWidth = 40

type Config struct {
	// Broker.
	Broker      string
	Port        int
	Username    string
	Password    string
	ClientID    string
	TopicFilter string
	QoS         int
	Protocol    int

	// Replay.
	ReplayPath string
	Follow     bool

	// Dashboard.
	PollTimeoutMs int
	History       int
	Theme         Theme

	// OpenAI explain.
	Offline          bool
	OpenAIModel      string
	OpenAIBase       string
	OpenAITimeoutSec int

	ShowVersion bool
}

func Load() (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("mqttop", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Broker, "broker", getenvDefault("MQTTOP_BROKER", ""), "broker host (empty: demo mode unless -replay is set)")
	fs.IntVar(&cfg.Port, "port", getenvDefaultInt("MQTTOP_PORT", 1883), "broker port")
	fs.StringVar(&cfg.Username, "username", getenvDefault("MQTTOP_USERNAME", ""), "broker username")
	fs.StringVar(&cfg.Password, "password", getenvDefault("MQTTOP_PASSWORD", ""), "broker password (prefer MQTTOP_PASSWORD)")
	fs.StringVar(&cfg.ClientID, "client-id", "", "MQTT client id (default: mqttop-<pid>)")
	fs.StringVar(&cfg.TopicFilter, "topic", "#", "subscription topic filter")
	fs.IntVar(&cfg.QoS, "qos", 0, "subscription QoS (0-2)")
	fs.IntVar(&cfg.Protocol, "protocol", 4, "MQTT protocol version: 3 (3.1) or 4 (3.1.1)")
	fs.StringVar(&cfg.ReplayPath, "replay", "", "replay a JSONL recording instead of connecting")
	fs.BoolVar(&cfg.Follow, "follow", false, "keep following the replay file as it grows")
	fs.IntVar(&cfg.PollTimeoutMs, "poll-timeout-ms", 100, "display refresh interval in milliseconds")
	fs.IntVar(&cfg.History, "history", 512, "retained messages per topic node (min 16)")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.BoolVar(&cfg.Offline, "offline", false, "disable OpenAI explain and work offline only")
	fs.StringVar(&cfg.OpenAIModel, "openai-model", getenvDefault("MQTTOP_OPENAI_MODEL", "gpt-5-mini"), "OpenAI model override")
	fs.StringVar(&cfg.OpenAIBase, "openai-base-url", getenvDefault("MQTTOP_OPENAI_BASE_URL", ""), "OpenAI base URL override")
	fs.IntVar(&cfg.OpenAITimeoutSec, "openai-timeout-sec", getenvDefaultInt("MQTTOP_OPENAI_TIMEOUT_SEC", 60), "OpenAI request timeout in seconds")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.QoS < 0 || c.QoS > 2 {
		return fmt.Errorf("qos out of range: %d", c.QoS)
	}
	switch c.Protocol {
	case 3, 4:
	case 5:
		return errors.New("MQTT 5 is not supported by the client library; use -protocol 3 or 4")
	default:
		return fmt.Errorf("unknown protocol version: %d", c.Protocol)
	}
	if c.Broker != "" && c.ReplayPath != "" {
		return errors.New("-broker and -replay are mutually exclusive")
	}
	if c.TopicFilter == "" {
		return errors.New("-topic must not be empty")
	}
	if c.PollTimeoutMs < 10 {
		c.PollTimeoutMs = 10
	}
	if c.History < 16 {
		c.History = 16
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("unknown theme: %s", c.Theme)
	}
	return nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) OpenAIKey() string { return os.Getenv("OPENAI_API_KEY") }

func (c *Config) String() string {
	src := "demo"
	switch {
	case c.ReplayPath != "":
		src = "replay:" + c.ReplayPath
	case c.Broker != "":
		src = fmt.Sprintf("%s:%d topic=%s qos=%d proto=%d", c.Broker, c.Port, c.TopicFilter, c.QoS, c.Protocol)
	}
	return fmt.Sprintf("source=%s history=%d theme=%s offline=%v", src, c.History, c.Theme, c.Offline)
}
