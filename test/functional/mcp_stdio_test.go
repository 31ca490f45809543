package functional_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// stdioSession wraps an MCP client session for stdio transport testing
type stdioSession struct {
	session *sdkmcp.ClientSession
	cancel  context.CancelFunc
}

func newStdioSession(t *testing.T, principal string) *stdioSession {
	t.Helper()

	// Find the binary
	binaryPath := "./bin/attest"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/attest"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'make build' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"ATTEST_TRANSPORT=stdio",
		"ATTEST_DB_PATH=:memory:",
		"ATTEST_ISSUER_OWNER=owner",
		"ATTEST_STDIO_PRINCIPAL="+principal,
		"ATTEST_METRICS_ENABLED=false",
	)

	transport := &sdkmcp.CommandTransport{Command: cmd}

	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		cancel()
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		session.Close()
		cancel()
	})

	return &stdioSession{session: session, cancel: cancel}
}

func (s *stdioSession) call(t *testing.T, name string, args map[string]any) (json.RawMessage, bool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if args == nil {
		args = map[string]any{}
	}
	result, err := s.session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)

	for _, content := range result.Content {
		if textContent, ok := content.(*sdkmcp.TextContent); ok {
			return json.RawMessage(textContent.Text), result.IsError
		}
	}
	t.Fatalf("Tool %s returned no text content", name)
	return nil, true
}

func (s *stdioSession) callTool(t *testing.T, name string, args map[string]any) json.RawMessage {
	t.Helper()
	out, isErr := s.call(t, name, args)
	require.False(t, isErr, "Tool %s returned error: %s", name, out)
	return out
}

func TestStdioFunctional_OwnerLifecycle(t *testing.T) {
	s := newStdioSession(t, "owner")

	s.callTool(t, "initialize", map[string]any{"base_uri": "https://meta.example/"})
	s.callTool(t, "create_event_id", map[string]any{"event_id": 1, "max_supply": 1, "organizer": "owner"})

	var minted struct {
		TokenID uint64 `json:"token_id"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "mint_token", map[string]any{"event_id": 1, "to": "alice"}), &minted))
	require.EqualValues(t, 1, minted.TokenID)

	out, isErr := s.call(t, "mint_token", map[string]any{"event_id": 1, "to": "bob"})
	require.True(t, isErr)
	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(out, &apiErr))
	require.Equal(t, "STATE_CONFLICT", apiErr.Code)

	var uri struct {
		URI string `json:"uri"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "token_uri", map[string]any{"token_id": 1}), &uri))
	require.Equal(t, "https://meta.example/1", uri.URI)
}

func TestStdioFunctional_NonOwnerCannotInitialize(t *testing.T) {
	s := newStdioSession(t, "mallory")

	out, isErr := s.call(t, "initialize", map[string]any{"base_uri": "x"})
	require.True(t, isErr)
	require.Contains(t, string(out), "UNAUTHORIZED")

	var info struct {
		Initialized bool `json:"initialized"`
	}
	require.NoError(t, json.Unmarshal(s.callTool(t, "contract_info", nil), &info))
	require.False(t, info.Initialized)
}
