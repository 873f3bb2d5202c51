// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/aurora-chat/internal/ui/styles"
	"github.com/jeranaias/aurora-chat/internal/util"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// Kind represents the type of notification.
type Kind int

const (
	// KindInfo is an informational toast (cyan color)
	KindInfo Kind = iota
	// KindSuccess is a success toast (emerald color)
	KindSuccess
	// KindWarning is a warning toast (amber color)
	KindWarning
	// KindError is an error toast (rose color)
	KindError
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3 * time.Second

// Toast is one notification.
type Toast struct {
	ID        int
	Kind      Kind
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the toast should be dismissed.
func (t Toast) IsExpired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager holds the visible toasts, newest first.
type Manager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
	duration  time.Duration
	now       func() time.Time
}

// NewManager creates a manager whose toasts last d (DefaultDuration if d <= 0).
func NewManager(d time.Duration) *Manager {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Manager{
		toasts:    make([]Toast, 0),
		nextID:    1,
		maxToasts: 5,
		duration:  d,
		now:       time.Now,
	}
}

// Add shows a new toast and returns its id.
func (m *Manager) Add(kind Kind, message string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	toast := Toast{
		ID:        m.nextID,
		Kind:      kind,
		Message:   message,
		CreatedAt: m.now(),
		Duration:  m.duration,
	}
	m.nextID++

	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return toast.ID
}

// Dismiss removes a toast by id.
func (m *Manager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, toast := range m.toasts {
		if toast.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops expired toasts and returns the ones still visible.
func (m *Manager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	active := make([]Toast, 0, len(m.toasts))
	for _, toast := range m.toasts {
		if !toast.IsExpired(now) {
			active = append(active, toast)
		}
	}
	m.toasts = active

	out := make([]Toast, len(active))
	copy(out, active)
	return out
}

// Toasts returns a copy of the visible toasts.
func (m *Manager) Toasts() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Len returns the number of visible toasts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts)
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to expire toasts.
type TickMsg struct {
	Time time.Time
}

// TickCmd returns a command that ticks toasts every 100ms.
func TickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// Render renders a single toast.
func Render(toast Toast, width int) string {
	maxWidth := 60
	if width > 0 && width-8 < maxWidth {
		maxWidth = width - 8
	}
	if maxWidth < 30 {
		maxWidth = 30
	}

	var color lipgloss.AdaptiveColor
	var icon string
	switch toast.Kind {
	case KindError:
		color, icon = styles.Rose, styles.StatusIndicators.Error
	case KindWarning:
		color, icon = styles.Amber, styles.StatusIndicators.Warning
	case KindSuccess:
		color, icon = styles.Emerald, styles.StatusIndicators.Success
	default:
		color, icon = styles.Cyan, styles.StatusIndicators.Info
	}

	iconStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	messageStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	content := iconStyle.Render(icon+" ") + messageStyle.Render(util.WrapWidth(toast.Message, maxWidth-10))

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(content)
}

// RenderStack renders toasts stacked vertically, right-aligned.
func RenderStack(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		rendered = append(rendered, Render(toast, width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)

	if width > 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
	}
	return stack
}
