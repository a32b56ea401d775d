// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/threadchat/internal/backend"
	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/store"
	"github.com/jeranaias/threadchat/internal/ui/components"
	"github.com/jeranaias/threadchat/internal/ui/styles"
)

// Backend is the subset of backend.Client the TUI needs.
type Backend interface {
	History(ctx context.Context) ([]model.Thread, error)
	Chat(ctx context.Context, req backend.ChatRequest) (model.Thread, error)
}

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies the pane that receives keyboard input.
type Focus int

const (
	FocusThreads Focus = iota
	FocusModels
	FocusCompose
	focusCount
)

func (f Focus) String() string {
	switch f {
	case FocusThreads:
		return "threads"
	case FocusModels:
		return "models"
	case FocusCompose:
		return "compose"
	default:
		return "unknown"
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a new Model. Store, Backend and Theme are required.
type Options struct {
	Store   *store.Store
	Backend Backend
	Theme   *styles.Theme

	// Config supplies UI settings. Nil uses config.Default().
	Config *config.Config

	// Watcher, when set, feeds config reloads into the model.
	Watcher *config.Watcher

	// Connect builds a new backend after a config reload changed the
	// backend section. Nil keeps the current backend.
	Connect func(cfg *config.Config) Backend

	// Now is the clock used for new thread ids. Nil uses time.Now.
	Now func() time.Time
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model of the TUI.
type Model struct {
	store   *store.Store
	backend Backend
	connect func(cfg *config.Config) Backend
	watcher *config.Watcher
	cfg     *config.Config
	theme   *styles.Theme
	keys    KeyMap
	now     func() time.Time

	// Widgets
	sidebar    *components.Sidebar
	selector   *components.ModelSelector
	transcript *components.Transcript
	statusBar  *components.StatusBar
	spinner    *components.Spinner
	markdown   *components.MarkdownRenderer
	input      textarea.Model
	viewport   viewport.Model

	focus Focus

	// alert is the open modal, nil when none.
	alert *components.Alert

	width  int
	height int
	ready  bool
}

// New creates the root model. The initial model selection comes from
// ui.default_model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	theme := opts.Theme

	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.Prompt = ""
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetHeight(composeLines)
	keys := DefaultKeyMap()
	input.KeyMap.InsertNewline.SetKeys(keys.Newline.Keys()...)
	input.Focus()

	spin := components.NewSpinner(theme, "Loading threads")

	m := Model{
		store:      opts.Store,
		backend:    opts.Backend,
		connect:    opts.Connect,
		watcher:    opts.Watcher,
		cfg:        cfg,
		theme:      theme,
		keys:       keys,
		now:        now,
		sidebar:    components.NewSidebar(theme),
		selector:   components.NewModelSelector(theme),
		transcript: components.NewTranscript(theme),
		statusBar:  components.NewStatusBar(theme),
		spinner:    &spin,
		markdown:   components.NewMarkdownRenderer(theme.MarkdownStyle()),
		input:      input,
		viewport:   viewport.New(0, 0),
		focus:      FocusCompose,
	}
	m.statusBar.Hints = hintsFor(m.keys)
	m.statusBar.BackendURL = cfg.Backend.URL
	if cfg.UI.DefaultModel != "" {
		m.store.SelectModel(cfg.UI.DefaultModel)
	}
	m.applyFocus()
	m.refresh(false)
	return m
}

// Init starts the history load, the sidebar spinner and the config watch.
func (m Model) Init() tea.Cmd {
	m.sidebar.Loading = true
	return tea.Batch(
		LoadHistoryCmd(m.backend),
		m.spinner.Start(),
		textarea.Blink,
		WatchConfigCmd(m.watcher),
	)
}

// Store returns the state container.
func (m Model) Store() *store.Store {
	return m.store
}

// Focus returns the focused pane.
func (m Model) Focus() Focus {
	return m.focus
}

// Alert returns the open alert text and whether one is open.
func (m Model) Alert() (string, bool) {
	if m.alert == nil {
		return "", false
	}
	return m.alert.Message, true
}

// MouseEnabled reports whether ui.mouse is on.
func (m Model) MouseEnabled() bool {
	return m.cfg.UI.Mouse
}

// =============================================================================
// STATE SYNC
// =============================================================================

// refresh copies store state into the widgets and re-renders the
// transcript. When follow is set the transcript scrolls to the bottom.
func (m *Model) refresh(follow bool) {
	active := m.store.ActiveThreadID()

	m.sidebar.Threads = m.store.Threads()
	m.sidebar.ActiveID = active
	m.sidebar.Loading = m.spinner.IsActive()
	m.sidebar.SpinnerView = m.spinner.View()
	if m.sidebar.Cursor >= len(m.sidebar.Threads) {
		m.sidebar.Cursor = len(m.sidebar.Threads) - 1
	}
	if m.sidebar.Cursor < 0 {
		m.sidebar.Cursor = 0
	}
	if m.sidebar.Offset > m.sidebar.Cursor {
		m.sidebar.Offset = m.sidebar.Cursor
	}

	m.selector.Selected = m.store.SelectedModel()
	m.statusBar.ModelID = m.store.SelectedModel()

	m.transcript.Exists = m.store.HasThread(active)
	m.transcript.Conversations = m.store.ActiveTranscript()
	if m.cfg.UI.RenderMarkdown {
		m.transcript.Markdown = m.markdown
	} else {
		m.transcript.Markdown = nil
	}
	m.viewport.SetContent(m.transcript.Render())
	if follow {
		m.viewport.GotoBottom()
	}
}

// applyFocus moves keyboard focus markers to m.focus.
func (m *Model) applyFocus() {
	m.sidebar.Focused = m.focus == FocusThreads
	m.selector.Focused = m.focus == FocusModels
	if m.focus == FocusCompose {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) showAlert(message string) {
	a := components.NewAlert(m.theme, message)
	m.alert = &a
}

func hintsFor(k KeyMap) []components.KeyHint {
	bindings := k.ShortHelp()
	hints := make([]components.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, components.KeyHint{Key: h.Key, Desc: h.Desc})
	}
	return hints
}
