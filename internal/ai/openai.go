package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	altai "github.com/sashabaranov/go-openai"

	"mqttop/internal/model"
	"mqttop/internal/util"
)

// OpenAIClient explains message payloads on demand. Entirely optional; the
// dashboard works without it.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{apiKey: apiKey, baseURL: baseURL, model: model, timeout: timeout}
}

const maxPayload = 4096

// Explain asks for a short plain-language description of the message. The
// payload is truncated to 4 KiB; binary payloads are described by size only.
func (c *OpenAIClient) Explain(ctx context.Context, m *model.Message) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", errors.New("openai disabled")
	}
	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := altai.DefaultConfig(c.apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cli := altai.NewClientWithConfig(cfg)
	resp, err := cli.CreateChatCompletion(ctx2, altai.ChatCompletionRequest{
		Model: c.model,
		Messages: []altai.ChatCompletionMessage{
			{Role: altai.ChatMessageRoleSystem, Content: "You explain MQTT messages to an operator watching a dashboard. Answer in at most five short sentences of plain prose. No code fences."},
			{Role: altai.ChatMessageRoleUser, Content: buildPrompt(m)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(m *model.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\nQoS: %d, retained: %t\n", m.Topic, m.QoS, m.Retain)
	if !utf8.Valid(m.Payload) {
		fmt.Fprintf(&b, "Payload: binary, %d bytes (not shown)\n", len(m.Payload))
	} else {
		p := m.Payload
		if len(p) > maxPayload {
			p = p[:maxPayload]
		}
		fmt.Fprintf(&b, "Payload:\n%s\n", util.Redact(string(p)))
	}
	b.WriteString("What is this message likely telling us?")
	return b.String()
}
