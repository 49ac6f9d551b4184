package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agenticledger/chatscraper-mcp/internal/auth"
	"github.com/agenticledger/chatscraper-mcp/internal/telegram"
)

func scrapeTelegramTool() mcp.Tool {
	return mcp.NewTool("scrape_telegram_channel",
		mcp.WithDescription("Scrape messages from a Telegram channel or group with optional filtering by date, keywords, users and media type."),
		mcp.WithString("accessToken", mcp.Required(),
			mcp.Description("Telegram credentials in the form api_id:api_hash:phone:session_string")),
		mcp.WithString("chat", mcp.Required(),
			mcp.Description("Channel username (with or without @), t.me link, or numeric chat id")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return, 1-1000 (default 100)")),
		mcp.WithString("minDate",
			mcp.Description("Only messages on or after this date, YYYY-MM-DD")),
		mcp.WithString("maxDate",
			mcp.Description("Only messages on or before this date (inclusive of the whole day), YYYY-MM-DD")),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated keywords; a message matches if it contains any of them (case-insensitive)")),
		mcp.WithString("users",
			mcp.Description("Comma-separated usernames or sender ids to keep")),
		mcp.WithBoolean("onlyMedia",
			mcp.Description("Keep only messages with attached media")),
		mcp.WithBoolean("onlyText",
			mcp.Description("Keep only messages without attached media")),
		mcp.WithBoolean("reverse",
			mcp.Description("Return messages oldest-first instead of newest-first")),
	)
}

func listTelegramTool() mcp.Tool {
	return mcp.NewTool("list_telegram_channels",
		mcp.WithDescription("List all Telegram channels and groups accessible to the authenticated user. Returns channel names, ids, types, and participant counts."),
		mcp.WithString("accessToken", mcp.Required(),
			mcp.Description("Telegram credentials in the form api_id:api_hash:phone:session_string")),
	)
}

func (s *Server) handleScrapeTelegram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.log.With().
		Str("op_id", uuid.NewString()).
		Str("tool", "scrape_telegram_channel").
		Logger()

	params := s.telegramScrapeParams(request)
	if err := params.Validate(s.cfg.MaxLimit); err != nil {
		log.Warn().Err(err).Msg("rejected invalid request")
		return toolResult(failureOf(err.Error()))
	}

	creds, err := auth.ParseTelegramToken(params.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("rejected invalid token")
		return toolResult(failureOf(err.Error()))
	}

	scraper := s.newTelegram(creds)
	defer scraper.Close()

	data, err := scraper.ScrapeChannel(ctx, telegram.ScrapeOptions{
		Chat:    params.Chat,
		Limit:   params.Limit,
		Reverse: params.Reverse,
		Filter:  params.FilterSpec(),
	})
	if err != nil {
		log.Error().Err(err).Str("chat", params.Chat).Msg("scrape failed")
		return toolResult(s.classifyTelegramError(err, params.Chat))
	}

	log.Info().Str("chat", params.Chat).Int("messages", data.TotalMessages).Msg("scrape complete")
	return toolResult(success{Success: true, Data: data})
}

func (s *Server) handleListTelegram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.log.With().
		Str("op_id", uuid.NewString()).
		Str("tool", "list_telegram_channels").
		Logger()

	token, err := requireToken(request)
	if err != nil {
		return toolResult(failureOf(err.Error()))
	}

	creds, err := auth.ParseTelegramToken(token)
	if err != nil {
		log.Warn().Err(err).Msg("rejected invalid token")
		return toolResult(failureOf(err.Error()))
	}

	scraper := s.newTelegram(creds)
	defer scraper.Close()

	data, err := scraper.ListChannels(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list channels failed")
		return toolResult(s.classifyTelegramError(err, ""))
	}

	log.Info().Int("channels", data.TotalCount).Msg("list complete")
	return toolResult(success{Success: true, Data: data})
}
