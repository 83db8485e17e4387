package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"mqttop/internal/ai"
	"mqttop/internal/config"
	"mqttop/internal/feed"
	"mqttop/internal/filter"
	"mqttop/internal/model"
	"mqttop/internal/view"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalExplain
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineSearch
	inlineFilter
)

// Model is the bubbletea glue around the index and the view controller.
// It is the only writer into the index: feed goroutines hand events over
// channels, inserts and queries both run on the update loop, so queries
// always observe a consistent state as of the last completed insert.
type Model struct {
	ctx context.Context
	cfg *config.Config

	index *model.Index
	ctl   *view.Controller

	events   <-chan feed.Event
	statuses <-chan feed.Status
	errs     <-chan error

	styles Styles
	keymap KeyMap
	input  textinput.Model
	spin   spinner.Model

	termWidth  int
	termHeight int

	criteria filter.Criteria

	searchPattern string
	searchRegex   bool

	lastEvent string // most recent connection/subscription event
	lastMsg   string // transient toast

	inlineMode inlineMode

	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	aiBusy bool
	openai *ai.OpenAIClient

	fatal error
}

// chrome is the number of lines reserved below the row window: one status
// line and one hint/input line.
const chrome = 2

func (m *Model) contentHeight() int {
	h := m.termHeight - chrome
	if h < 1 {
		h = 1
	}
	return h
}
