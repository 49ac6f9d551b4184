package main

import (
	"github.com/joho/godotenv"

	"github.com/agenticledger/chatscraper-mcp/internal/config"
	"github.com/agenticledger/chatscraper-mcp/internal/logger"
	"github.com/agenticledger/chatscraper-mcp/internal/server"
)

func main() {
	// optional .env for local development
	_ = godotenv.Load()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger (stderr only: stdout carries the MCP protocol)
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Msg("starting chat scraper MCP server")

	// 3. Serve over stdio until the client disconnects
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server terminated")
	}
}
