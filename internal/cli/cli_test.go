// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/threadchat/internal/backend"
	"github.com/jeranaias/threadchat/internal/config"
	"github.com/jeranaias/threadchat/internal/model"
	"github.com/jeranaias/threadchat/internal/server"
	"github.com/jeranaias/threadchat/internal/storage"
)

// testEnv is an isolated home directory with a config file pointing at a
// backend URL.
type testEnv struct {
	home       string
	configPath string
}

func newTestEnv(t *testing.T, backendURL string) testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"THREADCHAT_BACKEND_URL", "THREADCHAT_LOG_LEVEL", "THREADCHAT_SEND_MODEL"} {
		t.Setenv(k, "")
	}
	t.Setenv("NO_COLOR", "1")

	cfg := config.Default()
	cfg.Backend.URL = backendURL
	cfg.Log.Path = filepath.Join(home, "threadchat.log")
	path := filepath.Join(home, "config.toml")
	require.NoError(t, config.Save(cfg, path))
	return testEnv{home: home, configPath: path}
}

// startBackend runs the development backend with the echo responder.
func startBackend(t *testing.T) string {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := server.NewServer(server.Options{
		Store:   store,
		Limiter: server.NewRateLimiter(1000, 1000),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

// run executes the command tree and returns stdout, stderr and the error.
func (e testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// =============================================================================
// ROOT
// =============================================================================

func TestVersion(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")
	old := []string{Version, GitCommit, BuildDate}
	t.Cleanup(func() { SetVersionInfo(old[0], old[1], old[2]) })

	SetVersionInfo("1.2.3", "abc123", "2025-01-01")
	out, _, err := env.run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "threadchat 1.2.3")
	assert.Contains(t, out, "commit: abc123")
	assert.Contains(t, out, "built:  2025-01-01")
}

func TestBackendFlag_Invalid(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")
	_, _, err := env.run(t, "--backend", "ftp://nope", "config", "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend.url")
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_NewThread(t *testing.T) {
	env := newTestEnv(t, startBackend(t))

	out, errOut, err := env.run(t, "ask", "hello", "there")
	require.NoError(t, err)
	assert.Equal(t, "You said: hello there\n", out)
	assert.True(t, strings.HasPrefix(errOut, "thread "+model.ThreadIDPrefix), errOut)
}

func TestAsk_ContinuesThread(t *testing.T) {
	env := newTestEnv(t, startBackend(t))

	_, _, err := env.run(t, "ask", "--thread", "a", "hi")
	require.NoError(t, err)
	out, errOut, err := env.run(t, "ask", "--thread", "a", "again")
	require.NoError(t, err)
	assert.Equal(t, "You said: again\n", out)
	assert.Empty(t, errOut)

	out, _, err = env.run(t, "history", "a", "--json")
	require.NoError(t, err)
	var thread model.Thread
	require.NoError(t, json.Unmarshal([]byte(out), &thread))
	require.Len(t, thread.Conversations, 2)
	assert.Equal(t, "hi", thread.Conversations[0].Prompt)
	assert.Equal(t, "again", thread.Conversations[1].Prompt)
}

func TestAsk_EmptyPromptShowsAlert(t *testing.T) {
	env := newTestEnv(t, startBackend(t))

	_, _, err := env.run(t, "ask", "--thread", "a", "")
	require.Error(t, err)
	assert.Equal(t, "Please select a thread and enter a message.", err.Error())
}

func TestAsk_BackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer ts.Close()
	env := newTestEnv(t, ts.URL)

	_, _, err := env.run(t, "ask", "--thread", "a", "hi")
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestAsk_UnknownModel(t *testing.T) {
	env := newTestEnv(t, startBackend(t))

	_, _, err := env.run(t, "ask", "--model", "model9", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model")
}

func TestReadPrompt(t *testing.T) {
	p, err := readPrompt([]string{"a", "b"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "a b", p)
}

// =============================================================================
// HISTORY
// =============================================================================

func TestHistory_List(t *testing.T) {
	env := newTestEnv(t, startBackend(t))

	out, _, err := env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No threads yet.")

	_, _, err = env.run(t, "ask", "--thread", "b", "first prompt")
	require.NoError(t, err)
	_, _, err = env.run(t, "ask", "--thread", "a", "second")
	require.NoError(t, err)

	out, _, err = env.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "first prompt")
	assert.Contains(t, out, "second")

	out, _, err = env.run(t, "history", "--json")
	require.NoError(t, err)
	var threads []model.Thread
	require.NoError(t, json.Unmarshal([]byte(out), &threads))
	require.Len(t, threads, 2)
	assert.Equal(t, "b", threads[0].ID)
	assert.Equal(t, "a", threads[1].ID)
}

func TestHistory_Transcript(t *testing.T) {
	env := newTestEnv(t, startBackend(t))
	_, _, err := env.run(t, "ask", "--thread", "a", "hi")
	require.NoError(t, err)

	out, _, err := env.run(t, "history", "a")
	require.NoError(t, err)
	assert.Contains(t, out, "You: hi")
	assert.Contains(t, out, "You said: hi")

	_, _, err = env.run(t, "history", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `thread "missing" not found`)
}

func TestHistory_BackendDown(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1")

	_, _, err := env.run(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load history")
	assert.True(t, backend.IsTransport(err))
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_Markdown(t *testing.T) {
	env := newTestEnv(t, startBackend(t))
	_, _, err := env.run(t, "ask", "--thread", "a", "hi")
	require.NoError(t, err)

	dir := filepath.Join(env.home, "exports")
	out, _, err := env.run(t, "export", "a", "--output", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Exported "+filepath.Join(dir, "thread_a_")), out)

	matches, err := filepath.Glob(filepath.Join(dir, "thread_a_*.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "You said: hi")
}

func TestExport_JSONAndErrors(t *testing.T) {
	env := newTestEnv(t, startBackend(t))
	_, _, err := env.run(t, "ask", "--thread", "a", "hi")
	require.NoError(t, err)

	dir := t.TempDir()
	_, _, err = env.run(t, "export", "a", "-f", "json", "-o", dir)
	require.NoError(t, err)
	matches, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	require.Len(t, matches, 1)

	_, _, err = env.run(t, "export", "a", "-f", "pdf", "-o", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")

	_, _, err = env.run(t, "export", "missing", "-o", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `thread "missing" not found`)
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfig_SetGet(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")

	out, _, err := env.run(t, "config", "set", "backend.send_model", "true")
	require.NoError(t, err)
	assert.Equal(t, "backend.send_model = true\n", out)

	out, _, err = env.run(t, "config", "get", "backend.send_model")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, _, err = env.run(t, "config", "get", "server.cors_origins")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000,http://127.0.0.1:3000\n", out)
}

func TestConfig_SetInvalid(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")

	_, _, err := env.run(t, "config", "set", "backend.url", "ftp://example.com")
	require.Error(t, err)

	_, _, err = env.run(t, "config", "set", "no.such.key", "1")
	require.Error(t, err)

	out, _, err := env.run(t, "config", "get", "backend.url")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000\n", out)
}

func TestConfig_SetCreatesFile(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")
	env.configPath = filepath.Join(env.home, "fresh", "config.toml")

	_, _, err := env.run(t, "config", "set", "ui.mouse", "false")
	require.NoError(t, err)

	out, _, err := env.run(t, "config", "get", "ui.mouse")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestConfig_ShowAndPath(t *testing.T) {
	env := newTestEnv(t, "http://localhost:3000")

	out, _, err := env.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, env.configPath+"\n", out)

	out, _, err = env.run(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[backend]")
	assert.Contains(t, out, `url = "http://localhost:3000"`)
}

// =============================================================================
// REPL
// =============================================================================

// fakeBackend echoes prompts into in-memory threads.
type fakeBackend struct {
	threads map[string]model.Thread
	err     error
}

func (f *fakeBackend) History(context.Context) ([]model.Thread, error) {
	return nil, nil
}

func (f *fakeBackend) Chat(_ context.Context, req backend.ChatRequest) (model.Thread, error) {
	if f.err != nil {
		return model.Thread{}, f.err
	}
	if f.threads == nil {
		f.threads = make(map[string]model.Thread)
	}
	t, ok := f.threads[req.ThreadID]
	if !ok {
		t = model.NewThread(req.ThreadID)
	}
	t.Conversations = append(t.Conversations, model.Conversation{Prompt: req.Prompt, Response: "echo " + req.Prompt + " via " + req.Model})
	f.threads[req.ThreadID] = t
	return t.Clone(), nil
}

func newTestRepl(b Backend) (*repl, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := config.Default()
	cfg.UI.NoColor = true
	s := newSession(b)
	s.now = func() time.Time { return time.UnixMilli(1735689600000) }
	return newRepl(s, newPrinter(&out, cfg)), &out
}

func TestRepl_Commands(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{})
	ctx := context.Background()

	assert.False(t, r.handleLine(ctx, "hi"))
	assert.Contains(t, out.String(), "Please select a thread and enter a message.")
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/new"))
	assert.Contains(t, out.String(), "Started thread chat-1735689600000")
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/model model2"))
	assert.Contains(t, out.String(), "Selected Legal Policy GPT (model2)")
	out.Reset()

	assert.False(t, r.handleLine(ctx, "hello"))
	assert.Equal(t, "echo hello via model2\n", out.String())
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/models"))
	assert.Contains(t, out.String(), "* Legal Policy GPT (model2)")
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/threads"))
	assert.Contains(t, out.String(), "* chat-1735689600000")
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/switch other"))
	assert.Contains(t, out.String(), model.EmptyThreadGreeting)
	assert.Equal(t, "other", r.s.store.ActiveThreadID())
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/model nope"))
	assert.Contains(t, out.String(), "unknown model nope")
	out.Reset()

	assert.False(t, r.handleLine(ctx, "/bogus"))
	assert.Contains(t, out.String(), "unknown command /bogus")

	assert.False(t, r.handleLine(ctx, "   "))
	assert.True(t, r.handleLine(ctx, "/quit"))
}

func TestRepl_TransportFailureIsQuiet(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{err: &backend.ClientError{Type: backend.ErrTypeTransport, Message: "dial failed"}})
	ctx := context.Background()

	r.handleLine(ctx, "/new")
	out.Reset()
	r.handleLine(ctx, "hi")
	assert.Equal(t, "(no reply)\n", out.String())
}

func TestRepl_BackendErrorAlerts(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{err: &backend.ClientError{Type: backend.ErrTypeBackend, Message: "boom", Status: 500}})
	ctx := context.Background()

	r.handleLine(ctx, "/new")
	out.Reset()
	r.handleLine(ctx, "hi")
	assert.Equal(t, "boom\n", out.String())
}

func TestRepl_StartResumesThread(t *testing.T) {
	r, out := newTestRepl(&fakeBackend{})
	require.NoError(t, r.start(context.Background(), "chat-1", "model3"))

	assert.Equal(t, "chat-1", r.s.store.ActiveThreadID())
	assert.Equal(t, "model3", r.s.store.SelectedModel())
	assert.Contains(t, out.String(), "Thread chat-1")
}

func TestRepl_StartUnknownModel(t *testing.T) {
	fb := &fakeBackend{}
	r, _ := newTestRepl(fb)
	err := r.start(context.Background(), "", "model9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown model "model9"`)
	assert.Equal(t, "", r.s.store.ActiveThreadID())
}

func TestReplCmd_UnknownModel(t *testing.T) {
	env := newTestEnv(t, startBackend(t))
	_, _, err := env.run(t, "repl", "--model", "model9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown model "model9"`)
}
