package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Outcomes of one MCP message as recorded in the traffic log.
const (
	outcomeOK        = "ok"
	outcomeToolError = "tool_error"
	outcomeError     = "error"
)

// trafficLoggingMiddleware writes one "mcp traffic" line per message once it
// completes. Successful calls log at debug, tool failures at info and protocol
// failures at warn. Payloads are attached only when debug is enabled.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			outcome := callOutcome(result, err)

			attrs := []any{
				"direction", direction,
				"method", method,
				"caller", principalFromContext(ctx),
				"session_id", sessionID(req),
				"outcome", outcome,
				"duration", time.Since(start),
			}
			if tool := toolName(req); tool != "" {
				attrs = append(attrs, "tool", tool)
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			if logger.Enabled(ctx, slog.LevelDebug) {
				attrs = append(attrs, "params", formatPayload(paramsOf(req)), "result", formatPayload(result))
			}
			logger.Log(ctx, outcomeLevel(outcome), "mcp traffic", attrs...)
			return result, err
		}
	}
}

func callOutcome(result sdkmcp.Result, err error) string {
	if err != nil {
		return outcomeError
	}
	if r, ok := result.(*sdkmcp.CallToolResult); ok && r != nil && r.IsError {
		return outcomeToolError
	}
	return outcomeOK
}

func outcomeLevel(outcome string) slog.Level {
	switch outcome {
	case outcomeError:
		return slog.LevelWarn
	case outcomeToolError:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func toolName(req sdkmcp.Request) string {
	if r, ok := req.(*sdkmcp.CallToolRequest); ok && r != nil && r.Params != nil {
		return r.Params.Name
	}
	return ""
}

// sessionID tolerates requests built without a live session.
func sessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if s := req.GetSession(); s != nil {
		return s.ID()
	}
	return ""
}

func paramsOf(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
