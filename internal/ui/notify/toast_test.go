// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(m *Manager, start time.Time) *time.Time {
	now := start
	m.now = func() time.Time { return now }
	return &now
}

func TestManager_NewestFirst(t *testing.T) {
	m := NewManager(0)
	m.Add(KindInfo, "first")
	m.Add(KindError, "second")

	toasts := m.Toasts()
	assert.Len(t, toasts, 2)
	assert.Equal(t, "second", toasts[0].Message)
	assert.Equal(t, KindError, toasts[0].Kind)
	assert.Equal(t, DefaultDuration, toasts[0].Duration)
}

func TestManager_Capped(t *testing.T) {
	m := NewManager(time.Second)
	for i := 0; i < 8; i++ {
		m.Add(KindInfo, "toast")
	}
	assert.Equal(t, 5, m.Len())
}

func TestManager_TickExpires(t *testing.T) {
	m := NewManager(time.Second)
	now := fakeClock(m, time.Unix(1000, 0))

	m.Add(KindSuccess, "old")
	*now = now.Add(600 * time.Millisecond)
	m.Add(KindSuccess, "new")

	*now = now.Add(500 * time.Millisecond)
	active := m.Tick()
	assert.Len(t, active, 1)
	assert.Equal(t, "new", active[0].Message)

	*now = now.Add(time.Second)
	assert.Empty(t, m.Tick())
}

func TestManager_Dismiss(t *testing.T) {
	m := NewManager(0)
	id := m.Add(KindWarning, "bye")
	m.Add(KindInfo, "stay")

	m.Dismiss(id)
	m.Dismiss(9999)

	toasts := m.Toasts()
	assert.Len(t, toasts, 1)
	assert.Equal(t, "stay", toasts[0].Message)
}

func TestRender(t *testing.T) {
	out := Render(Toast{Kind: KindError, Message: "Error: boom"}, 80)
	assert.Contains(t, out, "Error: boom")
	assert.Contains(t, out, "[X]")

	assert.Empty(t, RenderStack(nil, 80))

	stack := RenderStack([]Toast{
		{Kind: KindSuccess, Message: "Session updated"},
		{Kind: KindInfo, Message: "Chat cleared"},
	}, 80)
	assert.Contains(t, stack, "Session updated")
	assert.Contains(t, stack, "Chat cleared")
}

func TestRender_WrapsLongMessages(t *testing.T) {
	long := "Could not reach your local model host at the configured address"
	out := Render(Toast{Kind: KindError, Message: long}, 40)
	assert.Contains(t, out, "Could not reach")
	assert.Greater(t, strings.Count(out, "\n"), 2)
}
