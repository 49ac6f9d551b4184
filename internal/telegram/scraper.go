package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gotd/td/tg"

	"github.com/agenticledger/chatscraper-mcp/internal/filter"
)

// listChannelsCap bounds the dialog enumeration for list operations.
const listChannelsCap = 100

// ScrapeChannel fetches a bounded window of channel history, enriching and
// filtering each message. Messages come back newest-first unless
// opts.Reverse asks for chronological order.
func (s *Scraper) ScrapeChannel(ctx context.Context, opts ScrapeOptions) (*ScrapeData, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	target, err := s.resolveChat(ctx, opts.Chat)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("chat", opts.Chat).
		Str("title", target.title).
		Int("limit", opts.Limit).
		Msg("telegram: starting scrape")

	messages, err := s.collect(ctx, target.peer, opts)
	if err != nil {
		return nil, err
	}

	return &ScrapeData{
		Channel:       opts.Chat,
		TotalMessages: len(messages),
		Messages:      messages,
		Metadata: Metadata{
			ChatTitle:         target.title,
			ChatType:          target.kind,
			TotalParticipants: target.participants,
			ExportedAt:        time.Now().UTC(),
		},
	}, nil
}

// collect iterates the remote history page by page, applying enrichment and
// the filter chain, until opts.Limit messages are kept or the source is
// exhausted. Page N+1 is never requested before page N is fully processed.
func (s *Scraper) collect(ctx context.Context, peer tg.InputPeerClass, opts ScrapeOptions) ([]Message, error) {
	kept := make([]Message, 0, opts.Limit)

	var (
		offsetID int
		seeded   bool
	)

	for page := 0; page < s.maxPages && len(kept) < opts.Limit; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		req := &tg.MessagesGetHistoryRequest{
			Peer:  peer,
			Limit: pageSize,
		}
		if opts.Reverse {
			// ascending traversal: a negative add-offset shifts the window
			// to messages newer than the anchor
			req.AddOffset = -pageSize
			if !seeded && opts.Filter.MinDate != nil {
				// minimum date becomes the starting offset hint
				req.OffsetDate = int(opts.Filter.MinDate.Unix())
			} else if !seeded {
				req.OffsetID = 1
			} else {
				req.OffsetID = offsetID
			}
		} else {
			req.OffsetID = offsetID
			if !seeded && opts.Filter.MaxDate != nil {
				// start pagination just below the end of the max day
				req.OffsetDate = int(opts.Filter.MaxDate.Add(24 * time.Hour).Unix())
			}
		}
		seeded = true

		history, err := s.history(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("get history: %w", err)
		}

		raw, users, chans := extractPage(history)
		if len(raw) == 0 {
			break
		}

		batch := raw
		if opts.Reverse {
			// pages arrive newest-first even in ascending traversal
			batch = reversed(raw)
		}

		exhausted := false
		for _, mc := range batch {
			m, ok := mc.(*tg.Message)
			if !ok {
				continue // service messages carry no scrapeable content
			}

			ts := time.Unix(int64(m.Date), 0).UTC()

			// traversal passed the date window: nothing further can match
			if !opts.Reverse && opts.Filter.MinDate != nil && ts.Before(*opts.Filter.MinDate) {
				exhausted = true
				break
			}
			if opts.Reverse && opts.Filter.MaxDate != nil && !ts.Before(opts.Filter.MaxDate.Add(24*time.Hour)) {
				exhausted = true
				break
			}

			msg := buildMessage(m, users, chans)
			if !keepMessage(msg, opts.Filter) {
				continue
			}

			kept = append(kept, msg)
			if len(kept) >= opts.Limit {
				break
			}
		}
		if exhausted || len(kept) >= opts.Limit {
			break
		}

		if opts.Reverse {
			offsetID = raw[0].GetID() + 1 // raw is newest-first
		} else {
			offsetID = raw[len(raw)-1].GetID()
		}
	}

	return kept, nil
}

// keepMessage runs the full filter chain against one enriched message.
func keepMessage(m Message, spec filter.Spec) bool {
	if !filter.WithinDateRange(m.Date, spec.MinDate, spec.MaxDate) {
		return false
	}

	var senderName, senderID string
	if m.Sender != nil {
		senderName = *m.Sender
	}
	if m.SenderID != nil {
		senderID = strconv.FormatInt(*m.SenderID, 10)
	}
	if !filter.MatchesUser(senderName, senderID, spec.Users) {
		return false
	}

	if !filter.ContainsKeywords(m.Text, spec.Keywords) {
		return false
	}

	return filter.MatchesMedia(m.HasMedia, spec.OnlyMedia, spec.OnlyText)
}

// extractPage pulls messages and the accompanying sender maps out of a
// history response.
func extractPage(history tg.MessagesMessagesClass) ([]tg.MessageClass, map[int64]*tg.User, map[int64]*tg.Channel) {
	var (
		msgs  []tg.MessageClass
		users []tg.UserClass
		chats []tg.ChatClass
	)

	switch h := history.(type) {
	case *tg.MessagesChannelMessages:
		msgs, users, chats = h.Messages, h.Users, h.Chats
	case *tg.MessagesMessages:
		msgs, users, chats = h.Messages, h.Users, h.Chats
	case *tg.MessagesMessagesSlice:
		msgs, users, chats = h.Messages, h.Users, h.Chats
	}

	userMap := make(map[int64]*tg.User, len(users))
	for _, u := range users {
		if user, ok := u.(*tg.User); ok {
			userMap[user.ID] = user
		}
	}
	chanMap := make(map[int64]*tg.Channel, len(chats))
	for _, c := range chats {
		if ch, ok := c.(*tg.Channel); ok {
			chanMap[ch.ID] = ch
		}
	}

	return msgs, userMap, chanMap
}

func reversed(in []tg.MessageClass) []tg.MessageClass {
	out := make([]tg.MessageClass, len(in))
	for i, m := range in {
		out[len(in)-1-i] = m
	}
	return out
}

// ListChannels enumerates up to 100 of the credential's accessible
// conversations, classifying each as a broadcast channel or group.
func (s *Scraper) ListChannels(ctx context.Context) (*ChannelsData, error) {
	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	chats, err := s.dialogChats(ctx)
	if err != nil {
		return nil, err
	}

	channels := make([]ChannelInfo, 0, len(chats))
	for _, c := range chats {
		switch v := c.(type) {
		case *tg.Channel:
			kind := "group"
			if v.Broadcast {
				kind = "channel"
			}
			var username *string
			if v.Username != "" {
				u := v.Username
				username = &u
			}
			channels = append(channels, ChannelInfo{
				ID:           v.ID,
				Title:        v.Title,
				Username:     username,
				Type:         kind,
				Participants: v.ParticipantsCount,
				IsPublic:     v.Username != "",
			})
		case *tg.Chat:
			channels = append(channels, ChannelInfo{
				ID:           v.ID,
				Title:        v.Title,
				Type:         "group",
				Participants: v.ParticipantsCount,
			})
		}
	}

	return &ChannelsData{
		Channels:   channels,
		TotalCount: len(channels),
	}, nil
}
