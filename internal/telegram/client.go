// Package telegram implements the group-messaging adapter: MTProto session
// handling, channel resolution and the paginated scrape pipeline.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/celestix/gotgproto"
	"github.com/celestix/gotgproto/sessionMaker"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/agenticledger/chatscraper-mcp/internal/auth"
	"github.com/agenticledger/chatscraper-mcp/internal/logger"
)

// ErrChannelNotFound is returned when a channel reference cannot be
// resolved. The wrapping error carries the caller's original input.
var ErrChannelNotFound = errors.New("channel not found")

// telegram caps history pages at 100 messages
const pageSize = 100

// defaultMaxPages bounds worst-case work per invocation.
const defaultMaxPages = 50

// historyFunc fetches one page of channel history.
type historyFunc func(ctx context.Context, req *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error)

// Scraper is a per-invocation telegram adapter. It lazily establishes a
// session on first use and must be closed by the caller on every path.
type Scraper struct {
	creds       *auth.TelegramCredentials
	client      *gotgproto.Client
	rateLimiter *RateLimiter
	log         *logger.Logger
	maxPages    int

	history historyFunc
}

// NewScraper creates a disconnected scraper for the given credentials.
// maxPages bounds history pagination; zero or negative falls back to the
// package default.
func NewScraper(creds *auth.TelegramCredentials, rl *RateLimiter, maxPages int) *Scraper {
	if rl == nil {
		rl = DefaultRateLimiter()
	}
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &Scraper{
		creds:       creds,
		rateLimiter: rl,
		log:         logger.Get(),
		maxPages:    maxPages,
	}
}

// connect establishes the MTProto session. Idempotent: a live session is
// reused within the operation's lifetime.
func (s *Scraper) connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	s.log.Debug().Int("api_id", s.creds.APIID).Msg("telegram: connecting")

	client, err := gotgproto.NewClient(
		s.creds.APIID,
		s.creds.APIHash,
		gotgproto.ClientTypePhone(s.creds.Phone),
		&gotgproto.ClientOpts{
			Session:          sessionMaker.StringSession(s.creds.Session),
			DisableCopyright: true,
			InMemory:         true,
			Context:          ctx,
		},
	)
	if err != nil {
		return fmt.Errorf("create telegram client: %w", err)
	}

	s.client = client
	s.history = func(ctx context.Context, req *tg.MessagesGetHistoryRequest) (tg.MessagesMessagesClass, error) {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, err := client.API().MessagesGetHistory(ctx, req)
		if err != nil {
			s.noteFloodWait(err)
		}
		return res, err
	}
	return nil
}

// Close stops the client. Safe to call in any state and more than once.
func (s *Scraper) Close() {
	if s.client != nil {
		s.client.Stop()
		s.client = nil
	}
}

// noteFloodWait feeds a FLOOD_WAIT delay back into the rate limiter.
func (s *Scraper) noteFloodWait(err error) {
	if d, ok := tgerr.AsFloodWait(err); ok {
		s.log.Warn().Dur("wait", d).Msg("telegram: FLOOD_WAIT, backing off")
		s.rateLimiter.SetFloodWait(d)
	}
}

// chat is a resolved channel reference.
type chat struct {
	peer         tg.InputPeerClass
	title        string
	kind         string // "channel" | "group" | "chat"
	participants int
}

// resolveChat resolves a caller-supplied reference (username, @username,
// t.me link or numeric id) to a concrete peer. Resolution is per-operation;
// nothing is cached across calls.
func (s *Scraper) resolveChat(ctx context.Context, ref string) (*chat, error) {
	name := normalizeRef(ref)

	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		return s.resolveChatByID(ctx, ref, id)
	}

	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	s.log.Info().Str("username", name).Msg("telegram: resolving channel username")
	resolved, err := s.client.API().ContactsResolveUsername(ctx, &tg.ContactsResolveUsernameRequest{
		Username: name,
	})
	if err != nil {
		s.noteFloodWait(err)
		if tgerr.Is(err, "USERNAME_NOT_OCCUPIED") || tgerr.Is(err, "USERNAME_INVALID") || tgerr.Is(err, "CHANNEL_INVALID") {
			return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
		}
		return nil, fmt.Errorf("resolve username %s: %w", name, err)
	}

	if len(resolved.Chats) > 0 {
		return chatFromResolved(resolved.Chats[0], ref)
	}

	if len(resolved.Users) > 0 {
		if u, ok := resolved.Users[0].(*tg.User); ok {
			title := u.FirstName
			if title == "" {
				title = u.Username
			}
			return &chat{
				peer:  &tg.InputPeerUser{UserID: u.ID, AccessHash: u.AccessHash},
				title: title,
				kind:  "chat",
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
}

// resolveChatByID scans the dialog list for a conversation with the given id.
func (s *Scraper) resolveChatByID(ctx context.Context, ref string, id int64) (*chat, error) {
	// telegram chat ids are often written with a -100 prefix
	id = stripChannelPrefix(id)

	chats, err := s.dialogChats(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range chats {
		switch v := c.(type) {
		case *tg.Channel:
			if v.ID == id {
				ch, _ := chatFromResolved(v, ref)
				return ch, nil
			}
		case *tg.Chat:
			if v.ID == id {
				ch, _ := chatFromResolved(v, ref)
				return ch, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
}

// dialogChats fetches up to one page of the credential's dialog list.
func (s *Scraper) dialogChats(ctx context.Context) ([]tg.ChatClass, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	dialogs, err := s.client.API().MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      listChannelsCap,
	})
	if err != nil {
		s.noteFloodWait(err)
		return nil, fmt.Errorf("get dialogs: %w", err)
	}

	switch d := dialogs.(type) {
	case *tg.MessagesDialogs:
		return d.Chats, nil
	case *tg.MessagesDialogsSlice:
		return d.Chats, nil
	}
	return nil, nil
}

// chatFromResolved maps a resolved tg chat object to our chat type.
func chatFromResolved(c tg.ChatClass, ref string) (*chat, error) {
	switch v := c.(type) {
	case *tg.Channel:
		kind := "group"
		if v.Broadcast {
			kind = "channel"
		}
		return &chat{
			peer:         &tg.InputPeerChannel{ChannelID: v.ID, AccessHash: v.AccessHash},
			title:        v.Title,
			kind:         kind,
			participants: v.ParticipantsCount,
		}, nil
	case *tg.Chat:
		return &chat{
			peer:         &tg.InputPeerChat{ChatID: v.ID},
			title:        v.Title,
			kind:         "group",
			participants: v.ParticipantsCount,
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
}

// normalizeRef strips t.me links and the @ marker from a channel reference.
func normalizeRef(ref string) string {
	ref = strings.TrimSpace(ref)
	for _, prefix := range []string{"https://t.me/", "http://t.me/", "t.me/"} {
		if strings.HasPrefix(ref, prefix) {
			ref = strings.TrimPrefix(ref, prefix)
			break
		}
	}
	return strings.TrimPrefix(ref, "@")
}

// stripChannelPrefix converts -100xxxxxxxxxx ids to their bare channel id.
func stripChannelPrefix(id int64) int64 {
	if id < 0 {
		id = -id
		s := strconv.FormatInt(id, 10)
		if strings.HasPrefix(s, "100") && len(s) > 3 {
			if bare, err := strconv.ParseInt(s[3:], 10, 64); err == nil {
				return bare
			}
		}
	}
	return id
}
