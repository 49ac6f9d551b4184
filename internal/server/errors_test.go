package server

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gotd/td/tgerr"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticledger/chatscraper-mcp/internal/config"
	"github.com/agenticledger/chatscraper-mcp/internal/slack"
	"github.com/agenticledger/chatscraper-mcp/internal/telegram"
)

func testServer() *Server {
	return New(&config.Config{
		DefaultLimit:         100,
		MaxLimit:             1000,
		MaxPages:             50,
		TGRateLimit:          2.0,
		TGRateBurst:          1,
		DefaultRetryAfterSec: 60,
	})
}

func TestClassifyTelegramError(t *testing.T) {
	s := testServer()

	t.Run("flood wait carries retry delay", func(t *testing.T) {
		err := fmt.Errorf("get history: %w", tgerr.New(420, "FLOOD_WAIT_42"))
		f := s.classifyTelegramError(err, "golang")

		assert.False(t, f.Success)
		require.NotNil(t, f.RetryAfter)
		assert.Equal(t, 42, *f.RetryAfter)
		assert.Contains(t, f.Error, "Rate limited by Telegram")
		assert.Contains(t, f.Error, "42 seconds")
	})

	t.Run("expired session", func(t *testing.T) {
		err := tgerr.New(401, "AUTH_KEY_UNREGISTERED")
		f := s.classifyTelegramError(err, "golang")
		assert.Contains(t, f.Error, "re-authenticate with Telegram")
		assert.Nil(t, f.RetryAfter)
	})

	t.Run("not found echoes the caller reference", func(t *testing.T) {
		err := fmt.Errorf("%w: @nope", telegram.ErrChannelNotFound)
		f := s.classifyTelegramError(err, "@nope")
		assert.Contains(t, f.Error, "@nope")
		assert.Contains(t, f.Error, "Channel not found")
	})

	t.Run("channel invalid rpc error", func(t *testing.T) {
		f := s.classifyTelegramError(tgerr.New(400, "CHANNEL_INVALID"), "12345")
		assert.Contains(t, f.Error, "Channel not found: 12345")
	})

	t.Run("unclassified passes through", func(t *testing.T) {
		f := s.classifyTelegramError(errors.New("connection reset by peer"), "golang")
		assert.Equal(t, "connection reset by peer", f.Error)
		assert.Nil(t, f.RetryAfter)
	})
}

func TestClassifySlackError(t *testing.T) {
	s := testServer()

	t.Run("typed rate limit", func(t *testing.T) {
		err := fmt.Errorf("get history: %w", &slackapi.RateLimitedError{RetryAfter: 30 * time.Second})
		f := s.classifySlackError(err, "general")

		require.NotNil(t, f.RetryAfter)
		assert.Equal(t, 30, *f.RetryAfter)
		assert.Contains(t, f.Error, "Rate limited by Slack")
	})

	t.Run("rate limit without delay gets the default", func(t *testing.T) {
		f := s.classifySlackError(errors.New("slack rate limit exceeded, retry later: ratelimited"), "general")
		require.NotNil(t, f.RetryAfter)
		assert.Equal(t, 60, *f.RetryAfter)
	})

	t.Run("invalid auth", func(t *testing.T) {
		f := s.classifySlackError(errors.New("invalid_auth"), "general")
		assert.Contains(t, f.Error, "Invalid Slack token")
	})

	t.Run("revoked token", func(t *testing.T) {
		f := s.classifySlackError(errors.New("token_revoked"), "general")
		assert.Contains(t, f.Error, "re-authenticate")
	})

	t.Run("not found echoes the caller reference", func(t *testing.T) {
		err := fmt.Errorf("%w: #missing", slack.ErrChannelNotFound)
		f := s.classifySlackError(err, "#missing")
		assert.Contains(t, f.Error, "#missing")
	})

	t.Run("missing scope enumerates required scopes", func(t *testing.T) {
		f := s.classifySlackError(errors.New("missing_scope"), "general")
		assert.Contains(t, f.Error, "channels:history")
		assert.Contains(t, f.Error, "users:read")
	})

	t.Run("unclassified passes through", func(t *testing.T) {
		f := s.classifySlackError(errors.New("dial tcp: i/o timeout"), "general")
		assert.Equal(t, "dial tcp: i/o timeout", f.Error)
	})
}
