package slack

import (
	"time"

	"github.com/agenticledger/chatscraper-mcp/internal/filter"
)

// ScrapeOptions holds the parameters for one channel scrape.
type ScrapeOptions struct {
	Channel        string      // #name, name or canonical id
	Limit          int         // hard upper bound on kept messages
	IncludeThreads bool        // expand thread replies
	Filter         filter.Spec // caller-supplied predicates
}

// File describes one attachment on a message.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Mimetype string `json:"mimetype"`
	Size     int    `json:"size"`
	URL      string `json:"url"`
}

// Reaction is one reaction tally on a message.
type Reaction struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Users []string `json:"users"`
}

// Message is one normalized slack message.
type Message struct {
	TS            string     `json:"ts"`
	Date          time.Time  `json:"date"`
	Text          string     `json:"text"`
	User          string     `json:"user"`
	UserName      *string    `json:"userName"` // nil if unresolvable
	UserRealName  string     `json:"userRealName,omitempty"`
	Files         []File     `json:"files,omitempty"`
	Reactions     []Reaction `json:"reactions,omitempty"`
	ThreadTS      string     `json:"threadTs,omitempty"`
	ReplyCount    int        `json:"replyCount,omitempty"`
	IsThreadReply bool       `json:"isThreadReply"`
}

// Metadata describes the scraped channel.
type Metadata struct {
	ChannelName string    `json:"channelName"`
	ChannelID   string    `json:"channelId"`
	Workspace   string    `json:"workspace"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// ScrapeData is the result of one scrape operation.
type ScrapeData struct {
	Channel       string    `json:"channel"` // caller-supplied reference
	TotalMessages int       `json:"totalMessages"`
	Messages      []Message `json:"messages"`
	Metadata      Metadata  `json:"metadata"`
}

// ChannelInfo summarizes one accessible channel.
type ChannelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsPrivate   bool   `json:"isPrivate"`
	MemberCount int    `json:"memberCount,omitempty"`
	Topic       string `json:"topic,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
	Created     int64  `json:"created"`
}

// ChannelsData is the result of one list-channels operation.
type ChannelsData struct {
	Channels   []ChannelInfo `json:"channels"`
	TotalCount int           `json:"totalCount"`
}
