package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/attest/internal/config"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/token"
)

func TestIssuerConfig(t *testing.T) {
	cfg, err := issuerConfig(config.IssuerConfig{Name: "Attendance", Symbol: "ATT", Owner: " Deployer ", Policy: "LOCKED"})
	require.NoError(t, err)
	require.Equal(t, access.Principal("deployer"), cfg.Owner)
	require.Equal(t, token.Locked, cfg.Policy)
	require.Equal(t, "ATT", cfg.Symbol)

	_, err = issuerConfig(config.IssuerConfig{Owner: "  ", Policy: "transferable"})
	require.ErrorIs(t, err, access.ErrInvalidPrincipal)
	require.ErrorContains(t, err, "issuer owner")

	_, err = issuerConfig(config.IssuerConfig{Owner: "deployer", Policy: "sticky"})
	require.ErrorIs(t, err, token.ErrInvalidPolicy)
	require.ErrorContains(t, err, "issuer policy")
}
