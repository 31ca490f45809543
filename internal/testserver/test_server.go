// Package testserver runs the full HTTP stack over an in-memory database for
// functional tests.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/attest/internal/auth"
	"github.com/rpggio/attest/internal/clock"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
	"github.com/rpggio/attest/internal/issuer/metrics"
	"github.com/rpggio/attest/internal/mcp"
	"github.com/rpggio/attest/internal/sqlite"
	"github.com/rpggio/attest/internal/transport"
)

// Start is the clock's initial reading.
var Start = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Issuer   *issuer.Issuer
	Clock    *clock.Manual
	Keys     *auth.KeyResolver
	Registry *prometheus.Registry
	// Token is the owner's API key.
	Token string
	Owner access.Principal
}

type options struct {
	policy token.TransferPolicy
}

type Option func(*options)

// WithPolicy sets the ledger's transfer policy.
func WithPolicy(p token.TransferPolicy) Option {
	return func(o *options) { o.policy = p }
}

func New(t *testing.T, owner access.Principal, opts ...Option) *TestServer {
	t.Helper()
	o := options{policy: token.Transferable}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	clk := clock.NewManual(Start)
	reg := prometheus.NewRegistry()
	is, err := issuer.Open(context.Background(), issuer.Config{
		Name:    "Attendance",
		Symbol:  "ATT",
		Owner:   owner,
		Policy:  o.policy,
		Clock:   clk,
		Store:   sqlite.NewStateRepository(db),
		Metrics: metrics.New(reg),
	})
	require.NoError(t, err)

	notifications := activity.NewService(sqlite.NewActivityRepository(db), nil)
	keys := auth.NewKeyResolver(sqlite.NewAPIKeyRepository(db), nil)

	router := transport.NewServer(mcp.NewHandler(is, notifications), transport.AuthMiddleware(keys), nil)
	mcpServer := mcp.NewServer(mcp.Config{
		Issuer:        is,
		Notifications: notifications,
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	router.Handle("/mcp", sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer }, nil,
	))
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Issuer:   is,
		Clock:    clk,
		Keys:     keys,
		Registry: reg,
		Owner:    owner,
	}
	ts.Token, err = ts.AddAPIKey(owner)
	require.NoError(t, err)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey issues a key for p and returns its plaintext.
func (ts *TestServer) AddAPIKey(p access.Principal) (string, error) {
	return ts.Keys.Issue(context.Background(), p, "test")
}
