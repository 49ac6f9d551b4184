// Package server exposes the platform adapters as MCP tools over stdio.
package server

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/agenticledger/chatscraper-mcp/internal/auth"
	"github.com/agenticledger/chatscraper-mcp/internal/config"
	"github.com/agenticledger/chatscraper-mcp/internal/logger"
	"github.com/agenticledger/chatscraper-mcp/internal/slack"
	"github.com/agenticledger/chatscraper-mcp/internal/telegram"
)

const (
	serverName    = "chatscraper-mcp"
	serverVersion = "1.0.0"
)

// telegramAdapter is the group-messaging surface the dispatch layer consumes.
type telegramAdapter interface {
	ScrapeChannel(ctx context.Context, opts telegram.ScrapeOptions) (*telegram.ScrapeData, error)
	ListChannels(ctx context.Context) (*telegram.ChannelsData, error)
	Close()
}

// slackAdapter is the team-messaging surface the dispatch layer consumes.
type slackAdapter interface {
	ScrapeChannel(ctx context.Context, opts slack.ScrapeOptions) (*slack.ScrapeData, error)
	ListChannels(ctx context.Context, includePrivate bool) (*slack.ChannelsData, error)
}

// Server is the MCP dispatch layer. Adapters are created per invocation
// from caller-supplied credentials; nothing is shared across tool calls.
type Server struct {
	cfg *config.Config
	log *logger.Logger
	mcp *mcpserver.MCPServer

	newTelegram func(creds *auth.TelegramCredentials) telegramAdapter
	newSlack    func(token string) slackAdapter
}

// New builds the server and registers the four scraping tools.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		log: logger.Get(),
	}
	s.newTelegram = func(creds *auth.TelegramCredentials) telegramAdapter {
		return telegram.NewScraper(creds, telegram.NewRateLimiter(cfg.TGRateLimit, cfg.TGRateBurst), cfg.MaxPages)
	}
	s.newSlack = func(token string) slackAdapter {
		return slack.NewScraper(token, cfg.MaxPages)
	}

	s.mcp = mcpserver.NewMCPServer(serverName, serverVersion)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(scrapeTelegramTool(), s.handleScrapeTelegram)
	s.mcp.AddTool(listTelegramTool(), s.handleListTelegram)
	s.mcp.AddTool(scrapeSlackTool(), s.handleScrapeSlack)
	s.mcp.AddTool(listSlackTool(), s.handleListSlack)
}

// Run serves MCP over stdio until the transport closes.
func (s *Server) Run() error {
	s.log.Info().Str("server", serverName).Str("version", serverVersion).Msg("serving MCP over stdio")
	return mcpserver.ServeStdio(s.mcp)
}

// toolResult serializes an envelope as the tool's text content. Failures
// ride inside the envelope, never as protocol-level errors.
func toolResult(env any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(body)), nil
}
