// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/aurora-chat/internal/app"
	"github.com/jeranaias/aurora-chat/internal/config"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/storage"
	"github.com/jeranaias/aurora-chat/internal/testutil"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/help", true},
		{"/model llama3", true},
		{"  /help", true},
		{"hello", false},
		{"hello /help", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		if got := IsCommand(tc.input); got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestExtractCommandName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/help", "/help"},
		{"/model llama3", "/model"},
		{"  /temp 0.2  ", "/temp"},
		{"hello", ""},
	}

	for _, tc := range tests {
		if got := ExtractCommandName(tc.input); got != tc.want {
			t.Errorf("ExtractCommandName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/model llama3", []string{"/model", "llama3"}},
		{`/key "a b c"`, []string{"/key", "a b c"}},
		{`/key 'it\'s'`, []string{"/key", "it's"}},
		{"/model   spaced   out", []string{"/model", "spaced", "out"}},
		{"/model modèle", []string{"/model", "modèle"}},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("splitCommandLine(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse("/P ollama")
	if !res.IsCommand || res.Command == nil || res.Command.Name != "/provider" {
		t.Fatalf("alias lookup failed: %+v", res)
	}
	if res.RawArgs != "ollama" {
		t.Errorf("RawArgs = %q", res.RawArgs)
	}

	if res := p.Parse("plain text"); res.IsCommand {
		t.Error("plain text parsed as command")
	}
	if res := p.Parse("/nope"); res.Command != nil {
		t.Error("unknown command resolved")
	}
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	var verr *ValidationError
	if err := ValidateArgs(r.Get("/temp"), nil); !errors.As(err, &verr) {
		t.Errorf("missing required arg err = %v", err)
	}
	if err := ValidateArgs(r.Get("/export"), []string{"pdf"}); !errors.As(err, &verr) || verr.Got != "pdf" {
		t.Errorf("bad enum err = %v", err)
	}
	if err := ValidateArgs(r.Get("/export"), []string{"YAML"}); err != nil {
		t.Errorf("enum match should be case-insensitive: %v", err)
	}
}

// =============================================================================
// EXECUTION TESTS
// =============================================================================

type fixture struct {
	parser  *Parser
	ctx     *Context
	app     *app.App
	backend *testutil.Backend
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := testutil.NewBackend(t)
	cfg := config.Default()
	cfg.APIBaseURL = backend.URL()
	cfg.Storage.Backend = storage.BackendMemory

	a, err := app.New(context.Background(), app.Options{Config: cfg})
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })

	return &fixture{
		parser:  NewParser(NewRegistry()),
		ctx:     &Context{Ctx: context.Background(), Controller: a.Controller, ExportDir: t.TempDir()},
		app:     a,
		backend: backend,
	}
}

func (f *fixture) run(t *testing.T, input string) Result {
	t.Helper()
	res, err := f.parser.Execute(f.ctx, input)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", input, err)
	}
	return res
}

func TestExecute_SessionEdits(t *testing.T) {
	f := newFixture(t)

	f.run(t, "/temp 0.2")
	f.run(t, "/topp 0.5")
	f.run(t, "/model openrouter/auto")
	res := f.run(t, "/key sk-test-1234")

	if !strings.Contains(res.Output, "1234") || strings.Contains(res.Output, "sk-test") {
		t.Errorf("key output should be masked: %q", res.Output)
	}

	sess := f.app.Sessions.Current()
	if sess.Temperature != 0.2 || sess.TopP != 0.5 || sess.Model != "openrouter/auto" || sess.APIKey != "sk-test-1234" {
		t.Errorf("session = %+v", sess)
	}
}

func TestExecute_InvalidNumberFallsBackToDefault(t *testing.T) {
	f := newFixture(t)

	f.run(t, "/temp 0.1")
	f.run(t, "/temp warm")

	if got := f.app.Sessions.Current().Temperature; got != 0.7 {
		t.Errorf("temperature = %v, want default 0.7", got)
	}
}

func TestExecute_ProviderSwitch(t *testing.T) {
	f := newFixture(t)
	f.backend.OnModels(func(string) testutil.Reply { return testutil.ModelsReply("mistral", "llama3") })

	res := f.run(t, "/provider ollama")
	if !strings.Contains(res.Output, "mistral") {
		t.Errorf("output = %q", res.Output)
	}
	if sess := f.app.Sessions.Current(); sess.Provider != "ollama" || sess.Model != "mistral" {
		t.Errorf("session = %+v", sess)
	}

	_, err := f.parser.Execute(f.ctx, "/provider nowhere")
	if !errors.Is(err, exchange.ErrUnknownProvider) || !Reported(err) {
		t.Errorf("unknown provider err = %v", err)
	}
}

func TestExecute_KeyRefusedForLocalProvider(t *testing.T) {
	f := newFixture(t)
	f.run(t, "/provider ollama")

	_, err := f.parser.Execute(f.ctx, "/key secret")
	if !errors.Is(err, exchange.ErrKeyNotAccepted) {
		t.Errorf("err = %v, want ErrKeyNotAccepted", err)
	}
	if f.app.Sessions.Current().APIKey != "" {
		t.Error("key stored for local provider")
	}
}

func TestExecute_ClearAndExport(t *testing.T) {
	f := newFixture(t)

	if _, err := f.parser.Execute(f.ctx, "/export"); err == nil {
		t.Error("export of empty history should fail")
	}

	f.app.Log.Append(model.NewUserMessage("hi"))
	f.app.Log.Append(model.NewAssistantMessage("hello"))

	res := f.run(t, "/export json")
	path := strings.TrimPrefix(res.Output, "Exported to ")
	if filepath.Ext(path) != ".json" {
		t.Errorf("export path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}

	f.run(t, "/clear")
	if f.app.Log.Len() != 0 {
		t.Error("log not cleared")
	}
}

func TestExecute_InfoCommands(t *testing.T) {
	f := newFixture(t)
	f.run(t, "/key abcdefgh")

	session := f.run(t, "/session").Output
	for _, want := range []string{"provider     openrouter", "temperature  0.7", "top_p        0.9", "********efgh"} {
		if !strings.Contains(session, want) {
			t.Errorf("/session missing %q:\n%s", want, session)
		}
	}

	providers := f.run(t, "/providers").Output
	if !strings.Contains(providers, "* openrouter") || !strings.Contains(providers, "  ollama") {
		t.Errorf("/providers output:\n%s", providers)
	}

	help := f.run(t, "/help").Output
	for _, want := range []string{"Session:", "/temp <n>", "/quit"} {
		if !strings.Contains(help, want) {
			t.Errorf("/help missing %q", want)
		}
	}

	if !f.run(t, "/q").Quit {
		t.Error("/q should quit")
	}
}

func TestExecute_Unknown(t *testing.T) {
	f := newFixture(t)

	if _, err := f.parser.Execute(f.ctx, "/frobnicate"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
	if _, err := f.parser.Execute(f.ctx, "hello"); err == nil {
		t.Error("non-command input should fail")
	}
}

// =============================================================================
// COMPLETION TESTS
// =============================================================================

func TestCompleter(t *testing.T) {
	c := NewCompleter(NewRegistry())
	c.ProvidersFn = func() []string { return []string{"openrouter", "ollama", "qwen"} }

	got := c.Complete("/pro")
	if len(got) != 2 || got[0].Value != "/provider" || got[1].Value != "/providers" {
		t.Errorf("Complete(/pro) = %+v", got)
	}

	args := c.Complete("/provider o")
	if len(args) != 2 {
		t.Errorf("provider completion = %+v", args)
	}

	if got := c.Complete("hello"); got != nil {
		t.Errorf("plain text completion = %+v", got)
	}

	lines := c.Lines("/export y")
	if len(lines) != 1 || lines[0] != "/export yaml" {
		t.Errorf("Lines = %q", lines)
	}
}
