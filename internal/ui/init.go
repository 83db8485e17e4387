package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"mqttop/internal/ai"
	"mqttop/internal/config"
	"mqttop/internal/model"
	"mqttop/internal/view"
)

func initialModel(ctx context.Context, cfg *config.Config) *Model {
	index := model.NewIndex(cfg.History)
	m := &Model{
		ctx:    ctx,
		cfg:    cfg,
		index:  index,
		ctl:    view.New(index, 20, 80),
		styles: NewStyles(cfg.Theme == config.ThemeDark),
		keymap: DefaultKeyMap(),
		input:  textinput.New(),
		spin:   spinner.New(),
	}
	m.spin.Spinner = spinner.Dot
	m.input.CharLimit = 256
	m.modalVP = viewport.New(80, 20)
	if !cfg.Offline && cfg.OpenAIKey() != "" {
		m.openai = ai.NewOpenAIClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second)
	}
	return m
}

// Run blocks until quit or a fatal error. The terminal-width check runs
// before the program starts: a viewport too narrow to be usable is a
// configuration error, not something to limp along with.
func Run(ctx context.Context, cfg *config.Config) error {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w < config.MinWidth {
		return fmt.Errorf("terminal is %d columns wide, need at least %d", w, config.MinWidth)
	}
	m := initialModel(ctx, cfg)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.fatal
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.startFeed(), m.scheduleTick(), m.spin.Tick)
}

func (m *Model) scheduleTick() tea.Cmd {
	interval := time.Duration(m.cfg.PollTimeoutMs) * time.Millisecond
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{} })
}
