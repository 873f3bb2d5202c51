// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
)

// lineView renders controller callbacks as plain lines. Replies go to out,
// everything else to errOut so piped replies stay clean.
type lineView struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	render func(string) string

	// progress prints placeholders and model changes.
	progress bool
	// replay prints messages shown by the controller, used while the
	// persisted history is loaded.
	replay bool
}

var _ exchange.View = (*lineView)(nil)

func newLineView(out, errOut io.Writer, render func(string) string) *lineView {
	if render == nil {
		render = func(s string) string { return s }
	}
	return &lineView{out: out, errOut: errOut, render: render}
}

func (v *lineView) setReplay(on bool) {
	v.mu.Lock()
	v.replay = on
	v.mu.Unlock()
}

func (v *lineView) Notify(kind exchange.NoticeKind, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.errOut, "%s %s\n", noticeTag(kind), text)
}

func (v *lineView) ClearInput() {}

func (v *lineView) SetSubmitEnabled(bool) {}

func (v *lineView) ShowMessage(_ string, msg model.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.replay {
		return
	}
	if msg.IsUser() {
		fmt.Fprintf(v.out, "%s %s\n", promptStyle.Render(msg.Role.DisplayName()+":"), msg.Content)
		return
	}
	fmt.Fprintf(v.out, "%s\n%s\n\n", welcomeStyle.Render(msg.Role.DisplayName()+":"), v.render(msg.Content))
}

func (v *lineView) ShowPlaceholder(_ string, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.progress {
		fmt.Fprintln(v.errOut, dimStyle.Render(text))
	}
}

func (v *lineView) ResolvePlaceholder(_ string, text string, failed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if failed {
		fmt.Fprintln(v.errOut, errorStyle.Render(text))
		return
	}
	fmt.Fprintln(v.out, v.render(text))
}

func (v *lineView) SetModel(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.progress && name != "" {
		fmt.Fprintln(v.errOut, dimStyle.Render("model: "+name))
	}
}
