package integration_test

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestStdioProtocolCompliance verifies the server works over stdio transport
// using the official MCP SDK client.
func TestStdioProtocolCompliance(t *testing.T) {
	binaryPath := "./bin/attest"
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		binaryPath = "../../bin/attest"
		if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
			t.Skip("Server binary not found. Run 'make build' first.")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath)
	cmd.Env = append(os.Environ(),
		"ATTEST_TRANSPORT=stdio",
		"ATTEST_DB_PATH=:memory:",
		"ATTEST_ISSUER_OWNER=owner",
		"ATTEST_STDIO_PRINCIPAL=owner",
	)

	transport := &sdkmcp.CommandTransport{Command: cmd}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	require.NoError(t, err, "Failed to connect to server")
	defer session.Close()

	t.Run("ServerInfo", func(t *testing.T) {
		initResult := session.InitializeResult()
		require.NotNil(t, initResult)
		require.NotNil(t, initResult.ServerInfo)
		require.Equal(t, "attest", initResult.ServerInfo.Name)
		require.NotEmpty(t, initResult.Instructions)
	})

	t.Run("ListTools", func(t *testing.T) {
		tools, err := session.ListTools(ctx, &sdkmcp.ListToolsParams{})
		require.NoError(t, err)
		names := make(map[string]bool, len(tools.Tools))
		for _, tool := range tools.Tools {
			names[tool.Name] = true
			require.NotNil(t, tool.InputSchema, "tool %s has no schema", tool.Name)
		}
		for _, want := range []string{
			"create_event_id", "mint_token", "mint_event_to_many_users", "mint_user_to_many_events",
			"freeze", "unfreeze", "burn", "pause", "unpause", "initialize", "supports_interface",
			"token_uri", "list_notifications",
		} {
			require.True(t, names[want], "missing tool %s", want)
		}
	})

	t.Run("ListResources", func(t *testing.T) {
		res, err := session.ListResources(ctx, &sdkmcp.ListResourcesParams{})
		require.NoError(t, err)
		require.NotEmpty(t, res.Resources)
	})

	t.Run("CallTool", func(t *testing.T) {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
			Name:      "supports_interface",
			Arguments: map[string]any{"interface_id": "0x01ffc9a7"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		text, ok := res.Content[0].(*sdkmcp.TextContent)
		require.True(t, ok)
		require.JSONEq(t, `{"value":true}`, text.Text)
	})
}
