// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"sort"
	"strings"

	"github.com/jeranaias/aurora-chat/internal/exchange"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/provider")
	Name string

	// Aliases are alternative names (e.g., "/p")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/temp <n>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) (Result, error)

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString   ArgType = iota // Free-form string
	ArgTypeProvider                // Provider id from the registry
	ArgTypeNumber                  // Numeric sampling parameter
	ArgTypeEnum                    // One of predefined values
)

// Context is what a handler operates on.
type Context struct {
	Ctx        context.Context
	Controller *exchange.Controller

	// ExportDir is where /export writes files. Empty means the working directory.
	ExportDir string
}

// Result is the outcome of a command.
type Result struct {
	// Output is text for the front end to show, if any.
	Output string

	// Quit asks the front end to exit.
	Quit bool
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias, case-insensitively.
func (r *Registry) Get(name string) *Command {
	name = strings.ToLower(name)
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Category:    "Navigation",
		Handler:     r.handleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit aurora",
		Category:    "Navigation",
		Handler:     handleQuit,
	})

	// Conversation
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear conversation history",
		Category:    "Conversation",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export conversation to a file",
		Usage:       "/export [markdown|json|yaml]",
		Args: []ArgDef{
			{Name: "format", Type: ArgTypeEnum, Values: []string{"markdown", "json", "yaml"}, Description: "Export format"},
		},
		Category: "Conversation",
		Handler:  handleExport,
	})

	// Session
	r.Register(&Command{
		Name:        "/provider",
		Aliases:     []string{"/p"},
		Description: "Switch provider and preselect its default model",
		Usage:       "/provider <id>",
		Args: []ArgDef{
			{Name: "id", Required: true, Type: ArgTypeProvider, Description: "provider id"},
		},
		Category: "Session",
		Handler:  handleProvider,
	})

	r.Register(&Command{
		Name:        "/model",
		Aliases:     []string{"/m"},
		Description: "Show or set the model",
		Usage:       "/model [name]",
		Args: []ArgDef{
			{Name: "name", Type: ArgTypeString, Description: "model name"},
		},
		Category: "Session",
		Handler:  handleModel,
	})

	r.Register(&Command{
		Name:        "/temp",
		Aliases:     []string{"/temperature"},
		Description: "Set sampling temperature",
		Usage:       "/temp <n>",
		Args: []ArgDef{
			{Name: "n", Required: true, Type: ArgTypeNumber, Description: "temperature"},
		},
		Category: "Session",
		Handler:  handleTemperature,
	})

	r.Register(&Command{
		Name:        "/topp",
		Aliases:     []string{"/top_p"},
		Description: "Set nucleus sampling cutoff",
		Usage:       "/topp <n>",
		Args: []ArgDef{
			{Name: "n", Required: true, Type: ArgTypeNumber, Description: "top_p"},
		},
		Category: "Session",
		Handler:  handleTopP,
	})

	r.Register(&Command{
		Name:        "/key",
		Description: "Set the API key for remote providers",
		Usage:       "/key [value]",
		Args: []ArgDef{
			{Name: "value", Type: ArgTypeString, Description: "API key"},
		},
		Category: "Session",
		Handler:  handleKey,
	})

	r.Register(&Command{
		Name:        "/session",
		Aliases:     []string{"/s"},
		Description: "Show the current session",
		Category:    "Session",
		Handler:     handleSession,
	})

	r.Register(&Command{
		Name:        "/providers",
		Description: "List available providers",
		Category:    "Session",
		Handler:     handleProviders,
	})
}
