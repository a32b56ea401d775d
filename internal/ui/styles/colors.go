// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the threadchat TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Accent - Selected model card, user bubble, New Chat button
var Accent = lipgloss.AdaptiveColor{Light: "#4B3FA8", Dark: "#5447BA"}

// AccentText - Text on accent backgrounds
var AccentText = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// SidebarSurface - Thread list background
var SidebarSurface = lipgloss.AdaptiveColor{Light: "#F1F3F7", Dark: "#111828"}

// ChatSurface - Transcript background
var ChatSurface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#030815"}

// ThreadSelected - Active thread background
var ThreadSelected = lipgloss.AdaptiveColor{Light: "#DDE1EA", Dark: "#20293A"}

// Border - Panel and card borders
var Border = lipgloss.AdaptiveColor{Light: "#CBD2DD", Dark: "#1B2334"}

// ResponseSurface - Response bubble background
var ResponseSurface = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#444444"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F3F4F6"}

// TextMuted - Dates, descriptions, key hints
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#666666"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Alerts
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Cyan - Focus ring
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// FocusRing marks the focused pane.
var FocusRing = Cyan
