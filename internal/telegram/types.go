package telegram

import (
	"time"

	"github.com/agenticledger/chatscraper-mcp/internal/filter"
)

// ScrapeOptions holds the parameters for one channel scrape.
type ScrapeOptions struct {
	Chat    string      // username, @username, t.me link or numeric id
	Limit   int         // hard upper bound on kept messages
	Reverse bool        // chronological order (oldest first)
	Filter  filter.Spec // caller-supplied predicates
}

// Message is one normalized telegram message.
type Message struct {
	ID          int            `json:"id"`
	Date        time.Time      `json:"date"`
	Text        string         `json:"text"`
	Sender      *string        `json:"sender"`   // display name, nil if unresolvable
	SenderID    *int64         `json:"senderId"` // canonical id, nil if unresolvable
	HasMedia    bool           `json:"-"` // any attachment, classified or not
	MediaType   *string        `json:"mediaType"`
	MediaURL    *string        `json:"mediaUrl"`
	MediaSize   int64          `json:"mediaSize,omitempty"`
	FileName    string         `json:"fileName,omitempty"`
	Reactions   map[string]int `json:"reactions,omitempty"`
	Views       int            `json:"views,omitempty"`
	Forwards    int            `json:"forwards,omitempty"`
	IsForwarded bool           `json:"isForwarded"`
	ForwardFrom string         `json:"forwardFrom,omitempty"`
}

// Metadata describes the scraped chat.
type Metadata struct {
	ChatTitle         string    `json:"chatTitle"`
	ChatType          string    `json:"chatType"` // "channel" | "group" | "chat"
	TotalParticipants int       `json:"totalParticipants,omitempty"`
	ExportedAt        time.Time `json:"exportedAt"`
}

// ScrapeData is the result of one scrape operation.
type ScrapeData struct {
	Channel       string    `json:"channel"` // caller-supplied reference
	TotalMessages int       `json:"totalMessages"`
	Messages      []Message `json:"messages"`
	Metadata      Metadata  `json:"metadata"`
}

// ChannelInfo summarizes one accessible conversation.
type ChannelInfo struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Username     *string `json:"username"`
	Type         string  `json:"type"` // "channel" | "group"
	Participants int     `json:"participants,omitempty"`
	IsPublic     bool    `json:"isPublic"`
}

// ChannelsData is the result of one list-channels operation.
type ChannelsData struct {
	Channels   []ChannelInfo `json:"channels"`
	TotalCount int           `json:"totalCount"`
}
