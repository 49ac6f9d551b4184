package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gotd/td/tgerr"
	slackapi "github.com/slack-go/slack"

	"github.com/agenticledger/chatscraper-mcp/internal/auth"
	"github.com/agenticledger/chatscraper-mcp/internal/slack"
	"github.com/agenticledger/chatscraper-mcp/internal/telegram"
)

// failure is the error half of the result envelope.
type failure struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	RetryAfter *int   `json:"retryAfter,omitempty"`
}

// success is the data half of the result envelope.
type success struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func failureOf(msg string) failure {
	return failure{Success: false, Error: msg}
}

func rateLimited(platform string, retryAfter int) failure {
	return failure{
		Success:    false,
		Error:      fmt.Sprintf("Rate limited by %s. Please wait %d seconds before trying again.", platform, retryAfter),
		RetryAfter: &retryAfter,
	}
}

// telegram RPC error types that mean the session is unusable
var telegramAuthCodes = []string{
	"AUTH_KEY_UNREGISTERED",
	"AUTH_KEY_INVALID",
	"AUTH_KEY_DUPLICATED",
	"SESSION_EXPIRED",
	"SESSION_REVOKED",
	"USER_DEACTIVATED",
}

// classifyTelegramError normalizes an adapter error into the envelope.
// Structured RPC error types are checked first; message text is only a
// fallback for errors that arrive without a code.
func (s *Server) classifyTelegramError(err error, chatRef string) failure {
	if wait, ok := tgerr.AsFloodWait(err); ok {
		retryAfter := int(wait.Seconds())
		if retryAfter <= 0 {
			retryAfter = s.cfg.DefaultRetryAfterSec
		}
		return rateLimited("Telegram", retryAfter)
	}

	if tgerr.Is(err, telegramAuthCodes...) {
		return failureOf("Invalid or expired session. Please re-authenticate with Telegram.")
	}

	if errors.Is(err, telegram.ErrChannelNotFound) ||
		tgerr.Is(err, "CHANNEL_INVALID", "CHANNEL_PRIVATE", "PEER_ID_INVALID") {
		return failureOf(fmt.Sprintf("Channel not found: %s. Make sure you have access to this channel.", chatRef))
	}

	if isTelegramTokenError(err) {
		return failureOf(err.Error())
	}

	// last resort for errors that lost their RPC type on the way up
	msg := err.Error()
	if strings.Contains(msg, "AUTH_KEY") || strings.Contains(msg, "SESSION_EXPIRED") {
		return failureOf("Invalid or expired session. Please re-authenticate with Telegram.")
	}

	return failureOf(msg)
}

func isTelegramTokenError(err error) bool {
	return errors.Is(err, auth.ErrTelegramTokenShape) ||
		errors.Is(err, auth.ErrTelegramAPIID) ||
		errors.Is(err, auth.ErrTelegramAPIHash) ||
		errors.Is(err, auth.ErrTelegramPhone) ||
		errors.Is(err, auth.ErrTelegramSession)
}

// classifySlackError normalizes an adapter error into the envelope. The
// rate-limit case carries a typed retry delay; everything else is matched
// against the web API's machine-readable error codes, which slack returns
// as the error string itself.
func (s *Server) classifySlackError(err error, channelRef string) failure {
	var rle *slackapi.RateLimitedError
	if errors.As(err, &rle) {
		retryAfter := int(rle.RetryAfter.Seconds())
		if retryAfter <= 0 {
			retryAfter = s.cfg.DefaultRetryAfterSec
		}
		return rateLimited("Slack", retryAfter)
	}

	if errors.Is(err, slack.ErrChannelNotFound) {
		return failureOf(fmt.Sprintf("Channel not found: %s. Make sure the bot is a member of the channel.", channelRef))
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid_auth") || strings.Contains(msg, "not_authed"):
		return failureOf("Invalid Slack token. Please check your authentication credentials.")
	case strings.Contains(msg, "token_expired") || strings.Contains(msg, "token_revoked"):
		return failureOf("Slack token has expired or been revoked. Please re-authenticate.")
	case strings.Contains(msg, "rate_limited") || strings.Contains(msg, "ratelimited"):
		return rateLimited("Slack", s.cfg.DefaultRetryAfterSec)
	case strings.Contains(msg, "channel_not_found"):
		return failureOf(fmt.Sprintf("Channel not found: %s. Make sure the bot is a member of the channel.", channelRef))
	case strings.Contains(msg, "missing_scope") || strings.Contains(msg, "not_in_channel"):
		return failureOf("Missing permissions. Ensure the bot has the following scopes: " +
			"channels:history, groups:history, channels:read, users:read. " +
			"Also verify the bot is a member of the channel.")
	}

	return failureOf(err.Error())
}
