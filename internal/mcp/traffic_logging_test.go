package mcp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/token"
)

type trafficLine struct {
	Level   string
	Tool    string
	Caller  string
	Outcome string
	Params  string
}

// lockedBuffer is written by server goroutines while the test reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}

func trafficLines(t *testing.T, buf *lockedBuffer) []trafficLine {
	t.Helper()
	var lines []trafficLine
	scanner := bufio.NewScanner(bytes.NewReader(buf.snapshot()))
	for scanner.Scan() {
		var raw map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &raw))
		str := func(key string) string {
			v, _ := raw[key].(string)
			return v
		}
		if str("msg") != "mcp traffic" || str("direction") != "inbound" || str("method") != "tools/call" {
			continue
		}
		lines = append(lines, trafficLine{
			Level:   str("level"),
			Tool:    str("tool"),
			Caller:  str("caller"),
			Outcome: str("outcome"),
			Params:  str("params"),
		})
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestTrafficLogging_ToolCalls(t *testing.T) {
	var buf lockedBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	is, log := newTestIssuer(t, token.Transferable)
	session := connectInMemory(t, Config{
		Issuer:         is,
		Notifications:  activity.NewService(log, nil),
		TransportMode:  "stdio",
		StdioPrincipal: owner,
		Logger:         logger,
	})

	require.True(t, callTool(t, session, "mint_token", map[string]any{"event_id": 1, "to": "alice"}).IsError)
	require.False(t, callTool(t, session, "paused", nil).IsError)

	lines := trafficLines(t, &buf)
	require.Len(t, lines, 2)

	require.Equal(t, "mint_token", lines[0].Tool)
	require.Equal(t, outcomeToolError, lines[0].Outcome)
	require.Equal(t, "INFO", lines[0].Level)
	require.Equal(t, string(owner), lines[0].Caller)
	require.Contains(t, lines[0].Params, "alice")

	require.Equal(t, "paused", lines[1].Tool)
	require.Equal(t, outcomeOK, lines[1].Outcome)
	require.Equal(t, "DEBUG", lines[1].Level)
}

func TestTrafficLogging_InfoLevelOmitsSuccessAndPayloads(t *testing.T) {
	var buf lockedBuffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	is, log := newTestIssuer(t, token.Transferable)
	session := connectInMemory(t, Config{
		Issuer:         is,
		Notifications:  activity.NewService(log, nil),
		TransportMode:  "stdio",
		StdioPrincipal: owner,
		Logger:         logger,
	})

	callTool(t, session, "paused", nil)
	callTool(t, session, "burn", map[string]any{"token_id": 9})

	lines := trafficLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "burn", lines[0].Tool)
	require.Equal(t, outcomeToolError, lines[0].Outcome)
	require.Empty(t, lines[0].Params)
}

func TestCallOutcome(t *testing.T) {
	require.Equal(t, outcomeOK, callOutcome(nil, nil))
	require.Equal(t, outcomeError, callOutcome(nil, ErrUnknownMethod))
	require.Equal(t, slog.LevelWarn, outcomeLevel(outcomeError))
	require.Empty(t, toolName(nil))
	require.Empty(t, sessionID(nil))
}
