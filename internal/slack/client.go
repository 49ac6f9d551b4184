// Package slack implements the team-messaging adapter: channel resolution,
// cursor pagination, per-operation sender caching and thread expansion.
package slack

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/agenticledger/chatscraper-mcp/internal/logger"
)

// ErrChannelNotFound is returned when a channel reference cannot be
// resolved. The wrapping error carries the caller's original input.
var ErrChannelNotFound = errors.New("channel not found")

// channelIDPattern matches canonical conversation ids (C..., G...).
var channelIDPattern = regexp.MustCompile(`^[CG][A-Z0-9]+$`)

// conversationsPageSize is the slack API cap for list/history pages.
const conversationsPageSize = 1000

// api is the subset of the slack web client this adapter consumes.
type api interface {
	GetConversationsContext(ctx context.Context, params *slackapi.GetConversationsParameters) ([]slackapi.Channel, string, error)
	GetConversationHistoryContext(ctx context.Context, params *slackapi.GetConversationHistoryParameters) (*slackapi.GetConversationHistoryResponse, error)
	GetConversationRepliesContext(ctx context.Context, params *slackapi.GetConversationRepliesParameters) (msgs []slackapi.Message, hasMore bool, nextCursor string, err error)
	GetUserInfoContext(ctx context.Context, user string) (*slackapi.User, error)
	GetTeamInfoContext(ctx context.Context) (*slackapi.TeamInfo, error)
}

// userEntry is a cached sender lookup result.
type userEntry struct {
	name     *string
	realName string
}

// Scraper is a per-invocation slack adapter. The sender cache lives and
// dies with the operation; nothing is shared across tool calls.
type Scraper struct {
	api       api
	log       *logger.Logger
	userCache map[string]userEntry
	maxPages  int
}

// defaultMaxPages bounds worst-case history pagination per invocation.
const defaultMaxPages = 50

// NewScraper creates an adapter over the slack web API for the given token.
// The token must already be validated. maxPages bounds history pagination;
// zero or negative falls back to the package default.
func NewScraper(token string, maxPages int) *Scraper {
	return newScraper(slackapi.New(token), maxPages)
}

func newScraper(client api, maxPages int) *Scraper {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Scraper{
		api:       client,
		log:       logger.Get(),
		userCache: make(map[string]userEntry),
		maxPages:  maxPages,
	}
}

// resolveChannel maps a caller-supplied reference to a canonical (id, name)
// pair. Canonical ids pass through; names are looked up in the paginated
// conversations list.
func (s *Scraper) resolveChannel(ctx context.Context, ref string) (id, name string, err error) {
	if channelIDPattern.MatchString(ref) {
		return ref, ref, nil
	}

	wanted := strings.TrimPrefix(ref, "#")

	cursor := ""
	for page := 0; page < s.maxPages; page++ {
		channels, next, err := s.api.GetConversationsContext(ctx, &slackapi.GetConversationsParameters{
			Types:  []string{"public_channel", "private_channel"},
			Limit:  conversationsPageSize,
			Cursor: cursor,
		})
		if err != nil {
			return "", "", fmt.Errorf("list conversations: %w", err)
		}

		for _, ch := range channels {
			if ch.Name == wanted || ch.ID == ref {
				return ch.ID, ch.Name, nil
			}
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return "", "", fmt.Errorf("%w: %s, make sure the bot is a member of the channel", ErrChannelNotFound, ref)
}

// resolveUser looks up a sender profile, memoized per operation so each
// unique sender costs at most one remote call.
func (s *Scraper) resolveUser(ctx context.Context, userID string) userEntry {
	if entry, ok := s.userCache[userID]; ok {
		return entry
	}

	entry := userEntry{}
	user, err := s.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		s.log.Debug().Err(err).Str("user", userID).Msg("slack: user lookup failed")
	} else if user != nil {
		if user.Name != "" {
			n := user.Name
			entry.name = &n
		}
		entry.realName = user.RealName
	}

	s.userCache[userID] = entry
	return entry
}

// workspaceName fetches the team display name, best-effort. Missing
// team:read scope degrades to a placeholder instead of failing.
func (s *Scraper) workspaceName(ctx context.Context) string {
	info, err := s.api.GetTeamInfoContext(ctx)
	if err != nil || info == nil || info.Name == "" {
		s.log.Debug().Err(err).Msg("slack: workspace info unavailable")
		return "Unknown"
	}
	return info.Name
}
