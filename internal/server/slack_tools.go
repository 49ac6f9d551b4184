package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agenticledger/chatscraper-mcp/internal/auth"
	"github.com/agenticledger/chatscraper-mcp/internal/slack"
)

func scrapeSlackTool() mcp.Tool {
	return mcp.NewTool("scrape_slack_channel",
		mcp.WithDescription("Scrape messages from a Slack channel with optional filtering by date, keywords, users and attachments, and optional thread expansion."),
		mcp.WithString("accessToken", mcp.Required(),
			mcp.Description("Slack bot (xoxb-) or user (xoxp-) token")),
		mcp.WithString("channel", mcp.Required(),
			mcp.Description("Channel name (with or without #) or canonical channel id")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return, 1-1000 (default 100)")),
		mcp.WithString("minDate",
			mcp.Description("Only messages on or after this date, YYYY-MM-DD")),
		mcp.WithString("maxDate",
			mcp.Description("Only messages on or before this date (inclusive of the whole day), YYYY-MM-DD")),
		mcp.WithString("keywords",
			mcp.Description("Comma-separated keywords; a message matches if it contains any of them (case-insensitive)")),
		mcp.WithString("users",
			mcp.Description("Comma-separated usernames or user ids to keep")),
		mcp.WithBoolean("onlyMedia",
			mcp.Description("Keep only messages with file attachments")),
		mcp.WithBoolean("onlyText",
			mcp.Description("Keep only messages without file attachments")),
		mcp.WithBoolean("includeThreads",
			mcp.Description("Also fetch replies for threaded messages")),
	)
}

func listSlackTool() mcp.Tool {
	return mcp.NewTool("list_slack_channels",
		mcp.WithDescription("List Slack channels accessible to the authenticated bot or user. Returns channel names, ids, topics, and member counts."),
		mcp.WithString("accessToken", mcp.Required(),
			mcp.Description("Slack bot (xoxb-) or user (xoxp-) token")),
		mcp.WithBoolean("includePrivate",
			mcp.Description("Also list private channels the bot is a member of")),
	)
}

func (s *Server) handleScrapeSlack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.log.With().
		Str("op_id", uuid.NewString()).
		Str("tool", "scrape_slack_channel").
		Logger()

	params := s.slackScrapeParams(request)
	if err := params.Validate(s.cfg.MaxLimit); err != nil {
		log.Warn().Err(err).Msg("rejected invalid request")
		return toolResult(failureOf(err.Error()))
	}

	if err := auth.ValidateSlackToken(params.AccessToken); err != nil {
		log.Warn().Err(err).Msg("rejected invalid token")
		return toolResult(failureOf(err.Error()))
	}

	scraper := s.newSlack(params.AccessToken)

	data, err := scraper.ScrapeChannel(ctx, slack.ScrapeOptions{
		Channel:        params.Channel,
		Limit:          params.Limit,
		IncludeThreads: params.IncludeThreads,
		Filter:         params.FilterSpec(),
	})
	if err != nil {
		log.Error().Err(err).Str("channel", params.Channel).Msg("scrape failed")
		return toolResult(s.classifySlackError(err, params.Channel))
	}

	log.Info().Str("channel", params.Channel).Int("messages", data.TotalMessages).Msg("scrape complete")
	return toolResult(success{Success: true, Data: data})
}

func (s *Server) handleListSlack(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.log.With().
		Str("op_id", uuid.NewString()).
		Str("tool", "list_slack_channels").
		Logger()

	token, err := requireToken(request)
	if err != nil {
		return toolResult(failureOf(err.Error()))
	}
	if err := auth.ValidateSlackToken(token); err != nil {
		log.Warn().Err(err).Msg("rejected invalid token")
		return toolResult(failureOf(err.Error()))
	}

	scraper := s.newSlack(token)

	data, err := scraper.ListChannels(ctx, request.GetBool("includePrivate", false))
	if err != nil {
		log.Error().Err(err).Msg("list channels failed")
		return toolResult(s.classifySlackError(err, ""))
	}

	log.Info().Int("channels", data.TotalCount).Msg("list complete")
	return toolResult(success{Success: true, Data: data})
}
