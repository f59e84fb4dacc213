// Package ui provides the full-screen chat panel for askdoc.
//
// The Model renders a conversation.Store: it subscribes to the store,
// forwards submissions to it, and runs each accepted query as a tea.Cmd
// whose outcome is resolved back into the store on the event loop.
package ui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/longkey1/askdoc/internal/askdoc/conversation"
	"github.com/rs/zerolog/log"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header, busy line, input, help
	chromeHeight = 5
)

// Options configures the chat panel
type Options struct {
	Title          string
	Placeholder    string
	StartOpen      bool
	RenderMarkdown bool
	MarkdownStyle  string
	// Copy writes text to the clipboard; defaults to the system clipboard
	Copy func(string) error
	// Context is handed to every query; defaults to context.Background
	Context context.Context
}

// queryDoneMsg carries the outcome of a query back to the event loop
type queryDoneMsg struct {
	outcome conversation.Outcome
}

// transcript caches the latest state pushed by the store observer
type transcript struct {
	state conversation.State
	dirty bool
}

// Model is the bubbletea model of the chat panel
type Model struct {
	store       *conversation.Store
	transcript  *transcript
	unsubscribe func()

	panel    Panel
	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	keys     keyMap
	renderer *glamour.TermRenderer

	opts   Options
	width  int
	height int
	status string
}

// NewModel creates a chat panel bound to store
func NewModel(store *conversation.Store, opts Options) Model {
	if opts.Title == "" {
		opts.Title = "AI Assistant"
	}
	if opts.Placeholder == "" {
		opts.Placeholder = "Ask a question about the book content..."
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "dark"
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	input := textinput.New()
	input.Placeholder = opts.Placeholder
	input.Prompt = "> "
	input.CharLimit = 10000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	t := &transcript{state: store.Snapshot(), dirty: true}
	unsubscribe := store.Subscribe(func(s conversation.State) {
		t.state = s
		t.dirty = true
	})

	m := Model{
		store:       store,
		transcript:  t,
		unsubscribe: unsubscribe,
		panel:       NewPanel(opts.StartOpen),
		input:       input,
		spinner:     sp,
		keys:        defaultKeyMap(),
		opts:        opts,
	}
	if m.panel.IsOpen() {
		m.input.Focus()
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Close detaches the model from its store
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Panel returns the panel visibility state
func (m Model) Panel() Panel {
	return m.panel
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Toggle):
			m.panel.Toggle()
			m.status = ""
			if m.panel.IsOpen() {
				m.transcript.dirty = true
				cmds = append(cmds, m.input.Focus())
			} else {
				m.input.Blur()
			}

		case !m.panel.IsOpen():
			// closed panel swallows everything but toggle and quit

		case key.Matches(msg, m.keys.Copy):
			m.copyLastReply()

		case key.Matches(msg, m.keys.Submit):
			cmds = append(cmds, m.submit())

		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)

		case m.transcript.state.Pending:
			// input is disabled while a query is in flight

		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case queryDoneMsg:
		m.store.Resolve(msg.outcome)

	case spinner.TickMsg:
		if m.transcript.state.Pending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.transcript.dirty {
		m.refresh()
	}

	return m, tea.Batch(cmds...)
}

// submit hands the input to the store and starts the query when accepted
func (m *Model) submit() tea.Cmd {
	call, ok := m.store.Submit(m.input.Value())
	if !ok {
		return nil
	}
	m.input.Reset()
	m.status = ""

	ctx := m.opts.Context
	run := func() tea.Msg {
		return queryDoneMsg{outcome: call.Do(ctx)}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *Model) copyLastReply() {
	msg, ok := m.transcript.state.LastBotMessage()
	if !ok {
		return
	}
	if err := m.opts.Copy(msg.Text); err != nil {
		log.Warn().Err(err).Msg("copy to clipboard failed")
		m.status = "Copy failed"
		return
	}
	m.status = "Copied last reply"
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}
	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(width, vpHeight)
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - len(m.input.Prompt) - 1

	m.renderer = nil
	if m.opts.RenderMarkdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.opts.MarkdownStyle),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			log.Warn().Err(err).Str("style", m.opts.MarkdownStyle).Msg("markdown renderer unavailable")
		} else {
			m.renderer = r
		}
	}

	m.transcript.dirty = true
	m.refresh()
}

// refresh rebuilds the viewport from the cached transcript
func (m *Model) refresh() {
	m.transcript.dirty = false
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

// Run starts the chat panel and blocks until the user quits
func Run(ctx context.Context, store *conversation.Store, opts Options) error {
	opts.Context = ctx
	m := NewModel(store, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
