// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/export"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/session"
)

// Reported reports whether the controller already showed err to the user
// as a notification, so front ends need not print it again.
func Reported(err error) bool {
	return errors.Is(err, exchange.ErrEmptyMessage) ||
		errors.Is(err, exchange.ErrNoProvider) ||
		errors.Is(err, exchange.ErrUnknownProvider) ||
		errors.Is(err, exchange.ErrKeyNotAccepted)
}

// =============================================================================
// NAVIGATION
// =============================================================================

func (r *Registry) handleHelp(ctx *Context, args []string) (Result, error) {
	groups := r.ByCategory()
	categories := make([]string, 0, len(groups))
	for category := range groups {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var sb strings.Builder
	for i, category := range categories {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(category + ":\n")
		for _, cmd := range groups[category] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			sb.WriteString(fmt.Sprintf("  %-30s %s\n", usage, cmd.Description))
		}
	}
	return Result{Output: strings.TrimRight(sb.String(), "\n")}, nil
}

func handleQuit(ctx *Context, args []string) (Result, error) {
	return Result{Quit: true}, nil
}

// =============================================================================
// CONVERSATION
// =============================================================================

func handleClear(ctx *Context, args []string) (Result, error) {
	ctx.Controller.Clear()
	return Result{}, nil
}

func handleExport(ctx *Context, args []string) (Result, error) {
	format := export.FormatMarkdown
	if len(args) > 0 {
		format = args[0]
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		return Result{}, err
	}

	sess := ctx.Controller.Session()
	path, err := export.ToFile(ctx.Controller.History(), export.Meta{
		Provider: sess.Provider,
		Model:    sess.Model,
	}, exporter, ctx.ExportDir)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: "Exported to " + path}, nil
}

// =============================================================================
// SESSION
// =============================================================================

func handleProvider(ctx *Context, args []string) (Result, error) {
	sess, err := ctx.Controller.SwitchProvider(ctx.Ctx, args[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Output: fmt.Sprintf("Provider: %s, model: %s", sess.Provider, displayModel(sess.Model))}, nil
}

func handleModel(ctx *Context, args []string) (Result, error) {
	if len(args) == 0 {
		return Result{Output: "Model: " + displayModel(ctx.Controller.Session().Model)}, nil
	}
	sess, err := ctx.Controller.SetField(ctx.Ctx, session.FieldModel, strings.Join(args, " "))
	if err != nil {
		return Result{}, err
	}
	return Result{Output: "Model: " + displayModel(sess.Model)}, nil
}

func handleTemperature(ctx *Context, args []string) (Result, error) {
	sess, err := ctx.Controller.SetField(ctx.Ctx, session.FieldTemperature, args[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Output: "Temperature: " + formatNumber(sess.Temperature)}, nil
}

func handleTopP(ctx *Context, args []string) (Result, error) {
	sess, err := ctx.Controller.SetField(ctx.Ctx, session.FieldTopP, args[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Output: "Top P: " + formatNumber(sess.TopP)}, nil
}

func handleKey(ctx *Context, args []string) (Result, error) {
	if len(args) == 0 {
		sess := ctx.Controller.Session()
		if !sess.HasAPIKey() {
			return Result{Output: "API key: (none)"}, nil
		}
		return Result{Output: "API key: " + sess.MaskedAPIKey()}, nil
	}

	sess, err := ctx.Controller.SetField(ctx.Ctx, session.FieldAPIKey, args[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Output: "API key: " + sess.MaskedAPIKey()}, nil
}

func handleSession(ctx *Context, args []string) (Result, error) {
	return Result{Output: FormatSession(ctx.Controller.Session())}, nil
}

func handleProviders(ctx *Context, args []string) (Result, error) {
	return Result{Output: FormatProviders(ctx.Controller.Providers(), ctx.Controller.Session().Provider)}, nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatSession renders a session for display. The API key is masked.
func FormatSession(sess session.Session) string {
	key := "(none)"
	if sess.HasAPIKey() {
		key = sess.MaskedAPIKey()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("provider     %s\n", sess.Provider))
	sb.WriteString(fmt.Sprintf("model        %s\n", displayModel(sess.Model)))
	sb.WriteString(fmt.Sprintf("temperature  %s\n", formatNumber(sess.Temperature)))
	sb.WriteString(fmt.Sprintf("top_p        %s\n", formatNumber(sess.TopP)))
	sb.WriteString(fmt.Sprintf("api_key      %s", key))
	return sb.String()
}

// FormatProviders renders the catalogue, marking the current provider.
func FormatProviders(providers []provider.Provider, current string) string {
	var sb strings.Builder
	for i, p := range providers {
		if i > 0 {
			sb.WriteString("\n")
		}
		marker := " "
		if p.ID == current {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %-12s %-8s %s", marker, p.ID, p.Type, p.Label))
		if p.DefaultModel != "" {
			sb.WriteString(" (" + p.DefaultModel + ")")
		}
	}
	return sb.String()
}

func displayModel(model string) string {
	if model == "" {
		return "(none)"
	}
	return model
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
