package slack

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"

	"github.com/agenticledger/chatscraper-mcp/internal/filter"
)

// ScrapeChannel fetches a bounded window of channel history under cursor
// pagination, enriching and filtering each message, optionally expanding
// thread replies.
func (s *Scraper) ScrapeChannel(ctx context.Context, opts ScrapeOptions) (*ScrapeData, error) {
	channelID, channelName, err := s.resolveChannel(ctx, opts.Channel)
	if err != nil {
		return nil, err
	}

	workspace := s.workspaceName(ctx)

	s.log.Info().
		Str("channel", opts.Channel).
		Str("channel_id", channelID).
		Int("limit", opts.Limit).
		Msg("slack: starting scrape")

	// date window becomes the API's oldest/latest bounds; latest points at
	// the start of the day after maxDate so the whole day is included
	var oldest, latest string
	if opts.Filter.MinDate != nil {
		oldest = strconv.FormatInt(opts.Filter.MinDate.Unix(), 10)
	}
	if opts.Filter.MaxDate != nil {
		latest = strconv.FormatInt(opts.Filter.MaxDate.Add(24*time.Hour).Unix(), 10)
	}

	messages := make([]Message, 0, opts.Limit)
	cursor := ""

	for page := 0; page < s.maxPages && len(messages) < opts.Limit; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		history, err := s.api.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
			ChannelID: channelID,
			Limit:     historyPageLimit(opts.Limit - len(messages)),
			Oldest:    oldest,
			Latest:    latest,
			Cursor:    cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("get history: %w", err)
		}
		if history == nil || len(history.Messages) == 0 {
			break
		}

		for _, raw := range history.Messages {
			if raw.Timestamp == "" || raw.User == "" {
				continue // bot and system events are not scrapeable messages
			}

			msg, keep := s.buildMessage(ctx, raw, opts.Filter)
			if !keep {
				continue
			}

			messages = append(messages, msg)
			if len(messages) >= opts.Limit {
				break
			}

			if opts.IncludeThreads && raw.ThreadTimestamp != "" && raw.ReplyCount > 0 {
				messages = s.expandThread(ctx, channelID, raw.ThreadTimestamp, opts, messages)
				if len(messages) >= opts.Limit {
					break
				}
			}
		}

		if !history.HasMore || history.ResponseMetaData.NextCursor == "" {
			break
		}
		cursor = history.ResponseMetaData.NextCursor
	}

	return &ScrapeData{
		Channel:       opts.Channel,
		TotalMessages: len(messages),
		Messages:      messages,
		Metadata: Metadata{
			ChannelName: channelName,
			ChannelID:   channelID,
			Workspace:   workspace,
			ExportedAt:  time.Now().UTC(),
		},
	}, nil
}

// buildMessage enriches one raw message and runs the full filter chain.
func (s *Scraper) buildMessage(ctx context.Context, raw slackapi.Message, spec filter.Spec) (Message, bool) {
	ts := tsToTime(raw.Timestamp)
	if !filter.WithinDateRange(ts, spec.MinDate, spec.MaxDate) {
		return Message{}, false
	}

	user := s.resolveUser(ctx, raw.User)
	var senderName string
	if user.name != nil {
		senderName = *user.name
	} else {
		senderName = user.realName
	}
	if !filter.MatchesUser(senderName, raw.User, spec.Users) {
		return Message{}, false
	}

	if !filter.ContainsKeywords(raw.Text, spec.Keywords) {
		return Message{}, false
	}

	hasMedia := len(raw.Files) > 0
	if !filter.MatchesMedia(hasMedia, spec.OnlyMedia, spec.OnlyText) {
		return Message{}, false
	}

	msg := Message{
		TS:            raw.Timestamp,
		Date:          ts,
		Text:          raw.Text,
		User:          raw.User,
		UserName:      user.name,
		UserRealName:  user.realName,
		ThreadTS:      raw.ThreadTimestamp,
		ReplyCount:    raw.ReplyCount,
		IsThreadReply: raw.ThreadTimestamp != "" && raw.ThreadTimestamp != raw.Timestamp,
	}

	for _, f := range raw.Files {
		url := f.URLPrivate
		if url == "" {
			url = f.Permalink
		}
		name := f.Name
		if name == "" {
			name = "unknown"
		}
		mimetype := f.Mimetype
		if mimetype == "" {
			mimetype = "application/octet-stream"
		}
		msg.Files = append(msg.Files, File{
			ID:       f.ID,
			Name:     name,
			Mimetype: mimetype,
			Size:     f.Size,
			URL:      url,
		})
	}

	for _, r := range raw.Reactions {
		msg.Reactions = append(msg.Reactions, Reaction{
			Name:  r.Name,
			Count: r.Count,
			Users: r.Users,
		})
	}

	return msg, true
}

// expandThread appends a thread's replies to the result. Replies carry the
// parent's thread context and pass only the keyword filter; a failed thread
// fetch is logged and swallowed since thread content is supplementary.
func (s *Scraper) expandThread(ctx context.Context, channelID, threadTS string, opts ScrapeOptions, messages []Message) []Message {
	replies, _, _, err := s.api.GetConversationRepliesContext(ctx, &slackapi.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: threadTS,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("thread_ts", threadTS).Msg("slack: thread fetch failed, skipping")
		return messages
	}

	for _, reply := range replies {
		if reply.Timestamp == "" || reply.User == "" || reply.Timestamp == threadTS {
			continue // the parent itself is already in the result
		}
		if !filter.ContainsKeywords(reply.Text, opts.Filter.Keywords) {
			continue
		}

		user := s.resolveUser(ctx, reply.User)
		messages = append(messages, Message{
			TS:            reply.Timestamp,
			Date:          tsToTime(reply.Timestamp),
			Text:          reply.Text,
			User:          reply.User,
			UserName:      user.name,
			UserRealName:  user.realName,
			ThreadTS:      threadTS,
			IsThreadReply: true,
		})
		if len(messages) >= opts.Limit {
			break
		}
	}

	return messages
}

// ListChannels enumerates accessible channels, optionally including private
// ones, excluding archived conversations.
func (s *Scraper) ListChannels(ctx context.Context, includePrivate bool) (*ChannelsData, error) {
	types := []string{"public_channel"}
	if includePrivate {
		types = append(types, "private_channel")
	}

	channels := make([]ChannelInfo, 0)
	cursor := ""

	for page := 0; page < s.maxPages && len(channels) < conversationsPageSize; page++ {
		batch, next, err := s.api.GetConversationsContext(ctx, &slackapi.GetConversationsParameters{
			Types:           types,
			Limit:           conversationsPageSize,
			ExcludeArchived: true,
			Cursor:          cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("list conversations: %w", err)
		}

		for _, ch := range batch {
			channels = append(channels, ChannelInfo{
				ID:          ch.ID,
				Name:        ch.Name,
				IsPrivate:   ch.IsPrivate,
				MemberCount: ch.NumMembers,
				Topic:       ch.Topic.Value,
				Purpose:     ch.Purpose.Value,
				Created:     int64(ch.Created),
			})
		}

		if next == "" {
			break
		}
		cursor = next
	}

	return &ChannelsData{
		Channels:   channels,
		TotalCount: len(channels),
	}, nil
}

// historyPageLimit clamps the per-page fetch size to the API maximum.
func historyPageLimit(remaining int) int {
	if remaining > conversationsPageSize {
		return conversationsPageSize
	}
	if remaining < 1 {
		return 1
	}
	return remaining
}

// tsToTime converts a slack "seconds.micros" timestamp to UTC time.
func tsToTime(ts string) time.Time {
	parts := strings.SplitN(ts, ".", 2)
	sec, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}
	}
	var nsec int64
	if len(parts) == 2 {
		if frac, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			// fractional part is microseconds
			nsec = frac * int64(time.Microsecond)
		}
	}
	return time.Unix(sec, nsec).UTC()
}
