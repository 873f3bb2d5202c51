// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange orchestrates chat round trips and session edits.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/session"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage is returned when the message is empty after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoProvider is returned when the session has no provider.
	ErrNoProvider = errors.New("no provider selected")

	// ErrUnknownProvider is returned when switching to an id not in the registry.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrKeyNotAccepted is returned when setting an API key on a local provider.
	ErrKeyNotAccepted = errors.New("local providers do not take an API key")
)

// ErrorText returns the text shown for a failed exchange: the server's error
// field, else the transport error text, else "Unknown error".
func ErrorText(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && ce.Type == api.ErrTypeApplication && ce.Message != "" {
		return ce.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return "Unknown error"
}

// =============================================================================
// EXCHANGE STATE
// =============================================================================

// State is the position of an exchange in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateSent
	StateDelivered
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSent:
		return "sent"
	case StateDelivered:
		return "delivered"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Result describes one finished exchange.
type Result struct {
	ID    string
	State State

	// Reply is the assistant text on delivery, or the "Error: ..." text shown
	// in the placeholder on failure.
	Reply string

	// Usage is passed through from the backend when delivered.
	Usage []byte
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Backend is the network boundary the controller talks to.
type Backend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	ListModels(ctx context.Context, providerID string) ([]string, error)
}

// Config holds the collaborators for a Controller.
type Config struct {
	Sessions *session.Manager
	Log      *model.Log
	Registry *provider.Registry
	Backend  Backend

	// View defaults to NopView.
	View View

	// MaxHistory caps how many messages are sent upstream. 0 sends everything.
	// The log itself is never truncated.
	MaxHistory int

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Controller owns the session, the conversation log and the exchanges
// between them and the backend.
//
// Exchanges are not serialized. Two sends in flight resolve their own
// placeholders independently and may complete in either order; disabling
// submit for the duration of an exchange is the only mitigation.
type Controller struct {
	sessions   *session.Manager
	log        *model.Log
	registry   *provider.Registry
	backend    Backend
	view       View
	maxHistory int
	logger     *zap.Logger

	newID func() string
}

// New creates a controller.
func New(cfg Config) (*Controller, error) {
	if cfg.Sessions == nil {
		return nil, errors.New("exchange: session manager is required")
	}
	if cfg.Log == nil {
		return nil, errors.New("exchange: conversation log is required")
	}
	if cfg.Registry == nil {
		return nil, errors.New("exchange: provider registry is required")
	}
	if cfg.Backend == nil {
		return nil, errors.New("exchange: backend is required")
	}

	view := cfg.View
	if view == nil {
		view = NopView{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		sessions:   cfg.Sessions,
		log:        cfg.Log,
		registry:   cfg.Registry,
		backend:    cfg.Backend,
		view:       view,
		maxHistory: cfg.MaxHistory,
		logger:     logger,
		newID:      uuid.NewString,
	}, nil
}

// SetView replaces the render target. It must be called before any
// exchange is started.
func (c *Controller) SetView(v View) {
	if v == nil {
		v = NopView{}
	}
	c.view = v
}

// Session returns the current session.
func (c *Controller) Session() session.Session {
	return c.sessions.Current()
}

// History returns the full conversation.
func (c *Controller) History() []model.Message {
	return c.log.All()
}

// Providers returns the provider catalogue in display order.
func (c *Controller) Providers() []provider.Provider {
	return c.registry.List()
}

// Provider resolves the session's current provider.
func (c *Controller) Provider() (provider.Provider, bool) {
	return c.registry.Resolve(c.sessions.Current().Provider)
}

// =============================================================================
// STARTUP
// =============================================================================

// Bootstrap hydrates the session and the log, renders the history, and
// derives a default model when the session has none.
func (c *Controller) Bootstrap(ctx context.Context) session.Session {
	sess := c.sessions.Hydrate()
	history := c.log.Hydrate()

	for _, msg := range history {
		c.view.ShowMessage(c.newID(), msg)
	}

	if sess.Model == "" {
		defaultModel := c.DefaultModel(ctx, sess.Provider)
		sess = c.sessions.Update(session.WithModel(defaultModel))
	}
	c.view.SetModel(sess.Model)

	c.logger.Debug("bootstrapped",
		zap.String("provider", sess.Provider),
		zap.String("model", sess.Model),
		zap.Int("history", len(history)))
	return sess
}

// =============================================================================
// CHAT EXCHANGE
// =============================================================================

// Send runs one exchange to completion.
//
// Validation failures return ErrEmptyMessage or ErrNoProvider with nothing
// appended and no network call. A failed exchange returns the backend error
// with State StateFailed; the user message stays in the log and no assistant
// message is added.
func (c *Controller) Send(ctx context.Context, text string) (Result, error) {
	message := strings.TrimSpace(text)
	if message == "" {
		c.view.Notify(NoticeWarning, TextEmptyMessage)
		return Result{State: StateIdle}, ErrEmptyMessage
	}

	sess := c.sessions.Current()
	if sess.Provider == "" {
		c.view.Notify(NoticeWarning, TextSelectProvider)
		return Result{State: StateIdle}, ErrNoProvider
	}

	id := c.newID()
	userMsg := model.NewUserMessage(message)

	c.log.Append(userMsg)
	c.view.ShowMessage(id, userMsg)
	c.view.ClearInput()
	c.view.SetSubmitEnabled(false)
	defer c.view.SetSubmitEnabled(true)
	c.view.ShowPlaceholder(id, TextPlaceholder)

	prov, _ := c.registry.Resolve(sess.Provider)
	req := BuildPayload(message, sess, prov, trimHistory(c.log.All(), c.maxHistory))

	logger := c.logger.With(
		zap.String("exchange_id", id),
		zap.String("provider", sess.Provider),
		zap.String("model", sess.Model))
	logger.Debug("exchange sent", zap.Int("history", len(req.History)))

	resp, err := c.backend.Chat(ctx, req)
	if err != nil {
		shown := "Error: " + ErrorText(err)
		c.view.ResolvePlaceholder(id, shown, true)
		logger.Warn("exchange failed", zap.Error(err))
		return Result{ID: id, State: StateFailed, Reply: shown}, err
	}

	reply := resp.Text()
	c.log.Append(model.NewAssistantMessage(reply))
	c.view.ResolvePlaceholder(id, reply, false)
	logger.Info("exchange delivered", zap.Int("chars", len(reply)))

	return Result{ID: id, State: StateDelivered, Reply: reply, Usage: resp.Usage}, nil
}

// =============================================================================
// SESSION EDITS
// =============================================================================

// DefaultModel derives the model to preselect for a provider.
//
// Remote providers use their static default with no network call. Local
// providers use the first model the backend lists; a backend error is shown
// as a warning notification and yields "". Unknown providers yield "".
func (c *Controller) DefaultModel(ctx context.Context, providerID string) string {
	prov, ok := c.registry.Resolve(providerID)
	if !ok {
		return ""
	}
	if !prov.IsLocal() {
		return prov.DefaultModel
	}

	models, err := c.backend.ListModels(ctx, providerID)
	if err != nil {
		var ce *api.ClientError
		if errors.As(err, &ce) && ce.Type == api.ErrTypeApplication {
			c.view.Notify(NoticeWarning, ce.Message)
		} else {
			c.view.Notify(NoticeWarning, TextLocalHostDown)
		}
		c.logger.Warn("local model lookup failed", zap.String("provider", providerID), zap.Error(err))
		return ""
	}
	if len(models) == 0 {
		return ""
	}
	return models[0]
}

// SwitchProvider selects a provider and replaces the model with its
// derived default.
func (c *Controller) SwitchProvider(ctx context.Context, providerID string) (session.Session, error) {
	providerID = strings.TrimSpace(providerID)
	if !c.registry.Has(providerID) {
		c.view.Notify(NoticeWarning, fmt.Sprintf("Unknown provider %q", providerID))
		return c.sessions.Current(), fmt.Errorf("%w: %q", ErrUnknownProvider, providerID)
	}

	c.sessions.Update(session.WithProvider(providerID))
	defaultModel := c.DefaultModel(ctx, providerID)

	// A later switch may have landed while the lookup was in flight
	if c.sessions.Current().Provider != providerID {
		return c.sessions.Current(), nil
	}

	sess := c.sessions.Update(session.WithModel(defaultModel))
	c.view.SetModel(defaultModel)
	return sess, nil
}

// SetField commits a single form field, as typing into that field does.
func (c *Controller) SetField(ctx context.Context, field, text string) (session.Session, error) {
	patch, err := session.FieldPatch(field, text)
	if err != nil {
		return c.sessions.Current(), err
	}

	if patch.Provider != nil {
		return c.SwitchProvider(ctx, *patch.Provider)
	}

	if patch.APIKey != nil {
		if prov, ok := c.Provider(); ok && prov.IsLocal() {
			c.view.Notify(NoticeWarning, TextLocalKeyNotNeeded)
			return c.sessions.Current(), ErrKeyNotAccepted
		}
	}

	sess := c.sessions.Update(patch)
	if patch.Model != nil {
		c.view.SetModel(sess.Model)
	}
	return sess, nil
}

// SaveSession replaces the whole session, as submitting the form does.
func (c *Controller) SaveSession(s session.Session) session.Session {
	sess := c.sessions.Replace(s)
	c.view.SetModel(sess.Model)
	c.view.Notify(NoticeSuccess, TextSessionUpdated)
	return sess
}

// Clear empties the conversation.
func (c *Controller) Clear() {
	c.log.Clear()
	c.view.Notify(NoticeInfo, TextChatCleared)
}
