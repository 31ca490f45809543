package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/mcp"
)

// MCPHandler handles MCP method dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, caller access.Principal, method string, params json.RawMessage) (any, error)
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP router. authMiddleware guards /rpc only; /health
// stays open.
func NewServer(handler MCPHandler, authMiddleware func(http.Handler) http.Handler, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)

	srv := &Server{handler: handler, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Post("/rpc", srv.handleRPC)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		if errors.Is(err, errInvalidRequest) {
			WriteError(w, req.ID, ErrInvalidReq, "invalid request", nil)
			return
		}
		WriteError(w, nil, ErrParseCode, "parse error", nil)
		return
	}

	caller, ok := PrincipalFromContext(r.Context())
	if !ok || caller.IsZero() {
		http.Error(w, "missing principal", http.StatusUnauthorized)
		return
	}

	requestID, _ := RequestIDFromContext(r.Context())
	result, err := s.handler.Handle(r.Context(), caller, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, mcp.ErrUnknownMethod) {
			WriteError(w, req.ID, ErrMethodNotFound, err.Error(), nil)
			return
		}
		if code, ok := CodeFor(err); ok {
			var data any
			if apiErr := mcp.MapError(err); apiErr != nil {
				data = apiErr
			}
			WriteError(w, req.ID, code, err.Error(), data)
			return
		}
		s.logger.Error("rpc call failed", "method", req.Method, "caller", caller, "request_id", requestID, "error", err)
		WriteError(w, req.ID, ErrInternal, "internal error", nil)
		return
	}

	WriteResult(w, req.ID, result)
}
