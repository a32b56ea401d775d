// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the threadchat TUI.
package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	renderer *lipgloss.Renderer

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	NewChatButton    lipgloss.Style
	ThreadItem       lipgloss.Style
	ThreadItemActive lipgloss.Style
	ThreadCursor     lipgloss.Style
	ThreadDate       lipgloss.Style
	SidebarHint      lipgloss.Style

	// ==========================================================================
	// MODEL SELECTOR STYLES
	// ==========================================================================

	ModelCard         lipgloss.Style
	ModelCardSelected lipgloss.Style
	ModelName         lipgloss.Style
	ModelDesc         lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	ChatPane       lipgloss.Style
	ChatHeading    lipgloss.Style
	UserBubble     lipgloss.Style
	ResponseBubble lipgloss.Style
	Placeholder    lipgloss.Style

	// ==========================================================================
	// COMPOSE STYLES
	// ==========================================================================

	ComposeBox        lipgloss.Style
	ComposeBoxFocused lipgloss.Style
	SendButton        lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// ALERT STYLES
	// ==========================================================================

	AlertBox   lipgloss.Style
	AlertTitle lipgloss.Style
	AlertText  lipgloss.Style
	AlertHint  lipgloss.Style

	// ==========================================================================
	// MISC
	// ==========================================================================

	Spinner lipgloss.Style
	Muted   lipgloss.Style
	Focused lipgloss.Style
}

// NewTheme creates a theme for stdout. noColor forces the ASCII profile.
func NewTheme(noColor bool) *Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return newTheme(r)
}

// NewThemeWithProfile creates a theme with a fixed color profile and a dark
// background. Tests use termenv.Ascii for plain output.
func NewThemeWithProfile(profile termenv.Profile) *Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(profile)
	r.SetHasDarkBackground(true)
	return newTheme(r)
}

func newTheme(r *lipgloss.Renderer) *Theme {
	t := &Theme{
		IsDark:       r.HasDarkBackground(),
		ColorProfile: r.ColorProfile(),
		renderer:     r,
	}
	t.initStyles()
	return t
}

// Renderer returns the renderer all styles were built with.
func (t *Theme) Renderer() *lipgloss.Renderer {
	return t.renderer
}

// NewStyle returns a style bound to the theme's renderer.
func (t *Theme) NewStyle() lipgloss.Style {
	return t.renderer.NewStyle()
}

// NoColor reports whether output is plain text.
func (t *Theme) NoColor() bool {
	return t.ColorProfile == termenv.Ascii
}

// MarkdownStyle returns the glamour standard style matching the terminal.
func (t *Theme) MarkdownStyle() string {
	switch {
	case t.NoColor():
		return "notty"
	case t.IsDark:
		return "dark"
	default:
		return "light"
	}
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	s := t.renderer.NewStyle

	// Sidebar
	t.Sidebar = s().
		Background(SidebarSurface).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.NewChatButton = s().
		Bold(true).
		Foreground(AccentText).
		Background(Accent).
		Padding(0, 1)

	t.ThreadItem = s().
		Foreground(TextPrimary).
		PaddingLeft(1)

	t.ThreadItemActive = s().
		Foreground(TextPrimary).
		Background(ThreadSelected).
		Bold(true).
		PaddingLeft(1)

	t.ThreadCursor = s().
		Foreground(FocusRing).
		Bold(true)

	t.ThreadDate = s().
		Foreground(TextMuted).
		PaddingLeft(1)

	t.SidebarHint = s().
		Foreground(TextMuted).
		Italic(true)

	// Model cards
	t.ModelCard = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	t.ModelCardSelected = s().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(Accent).
		Padding(0, 1)

	t.ModelName = s().
		Bold(true).
		Foreground(TextPrimary)

	t.ModelDesc = s().
		Foreground(TextMuted)

	// Transcript
	t.ChatPane = s().
		Background(ChatSurface)

	t.ChatHeading = s().
		Bold(true).
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border)

	t.UserBubble = s().
		Foreground(AccentText).
		Background(Accent).
		Padding(0, 1)

	t.ResponseBubble = s().
		Foreground(TextPrimary).
		Background(ResponseSurface).
		Padding(0, 1)

	t.Placeholder = s().
		Foreground(TextMuted).
		Italic(true)

	// Compose
	t.ComposeBox = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	t.ComposeBoxFocused = s().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(FocusRing)

	t.SendButton = s().
		Bold(true).
		Foreground(AccentText).
		Background(Accent).
		Padding(0, 1)

	// Status bar
	t.StatusBar = s().
		Foreground(TextMuted).
		Background(SidebarSurface)

	t.ShortcutKey = s().
		Bold(true).
		Foreground(TextPrimary).
		Background(SidebarSurface)

	t.ShortcutDesc = s().
		Foreground(TextMuted).
		Background(SidebarSurface)

	// Alert
	t.AlertBox = s().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.AlertTitle = s().
		Bold(true).
		Foreground(Rose)

	t.AlertText = s().
		Foreground(TextPrimary)

	t.AlertHint = s().
		Foreground(TextMuted).
		Italic(true)

	// Misc
	t.Spinner = s().Foreground(Accent)
	t.Muted = s().Foreground(TextMuted)
	t.Focused = s().Foreground(FocusRing).Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
