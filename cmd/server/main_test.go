package main

import (
	"bytes"
	"strings"
	"testing"

	"kamulog-stk/internal/pkg/jwt"
	"kamulog-stk/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DEV_JWT_SECRET", "cli-secret")
	prev := logger.Log
	t.Cleanup(func() { logger.Set(prev) })

	cmd := tokenCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--org", "dernek-1", "--role", "ADMIN"})
	require.NoError(t, cmd.Execute())

	claims, err := jwt.ValidateAccessToken(strings.TrimSpace(out.String()), "cli-secret")
	require.NoError(t, err)
	assert.Equal(t, "dernek-1", claims.OrgID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "dev-user", claims.UserID)
}

func TestTokenCommandRejectsUnknownRole(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	prev := logger.Log
	t.Cleanup(func() { logger.Set(prev) })

	cmd := tokenCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--role", "TREASURER"})
	assert.Error(t, cmd.Execute())
}

func TestCmdContextStop(t *testing.T) {
	ctx, stop := cmdContext()
	require.NoError(t, ctx.Err())

	stop()
	<-ctx.Done()
	assert.Error(t, ctx.Err())
}
