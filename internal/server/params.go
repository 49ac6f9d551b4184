package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agenticledger/chatscraper-mcp/internal/filter"
)

// validation errors
var (
	ErrTokenRequired   = errors.New("accessToken is required")
	ErrChatRequired    = errors.New("chat is required")
	ErrChannelRequired = errors.New("channel is required")
	ErrLimitRange      = errors.New("limit out of range")
	ErrInvalidMinDate  = errors.New("minDate must be in YYYY-MM-DD format")
	ErrInvalidMaxDate  = errors.New("maxDate must be in YYYY-MM-DD format")
	ErrDateOrder       = errors.New("minDate must not be after maxDate")
)

// scrapeParams holds the filtering arguments shared by both scrape tools.
type scrapeParams struct {
	AccessToken string
	Limit       int
	MinDate     string
	MaxDate     string
	Keywords    string
	Users       string
	OnlyMedia   bool
	OnlyText    bool
}

// Validate performs basic validation of the shared arguments.
// It never contacts a remote source.
func (p *scrapeParams) Validate(maxLimit int) error {
	if p.AccessToken == "" {
		return ErrTokenRequired
	}
	if p.Limit < 1 || p.Limit > maxLimit {
		return fmt.Errorf("%w: must be between 1 and %d", ErrLimitRange, maxLimit)
	}
	if p.MinDate != "" {
		if _, err := time.Parse(filter.DateLayout, p.MinDate); err != nil {
			return ErrInvalidMinDate
		}
	}
	if p.MaxDate != "" {
		if _, err := time.Parse(filter.DateLayout, p.MaxDate); err != nil {
			return ErrInvalidMaxDate
		}
	}
	if p.MinDate != "" && p.MaxDate != "" && p.MinDate > p.MaxDate {
		return ErrDateOrder
	}
	return nil
}

// FilterSpec builds the filter predicates from validated arguments.
func (p *scrapeParams) FilterSpec() filter.Spec {
	return filter.Spec{
		MinDate:   dateOrNil(p.MinDate),
		MaxDate:   dateOrNil(p.MaxDate),
		Keywords:  p.Keywords,
		Users:     p.Users,
		OnlyMedia: p.OnlyMedia,
		OnlyText:  p.OnlyText,
	}
}

// dateOrNil converts an already-validated date argument; empty means unset.
func dateOrNil(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := filter.ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

type telegramScrapeParams struct {
	scrapeParams
	Chat    string
	Reverse bool
}

func (p *telegramScrapeParams) Validate(maxLimit int) error {
	if p.Chat == "" {
		return ErrChatRequired
	}
	return p.scrapeParams.Validate(maxLimit)
}

type slackScrapeParams struct {
	scrapeParams
	Channel        string
	IncludeThreads bool
}

func (p *slackScrapeParams) Validate(maxLimit int) error {
	if p.Channel == "" {
		return ErrChannelRequired
	}
	return p.scrapeParams.Validate(maxLimit)
}

func (s *Server) sharedParams(request mcp.CallToolRequest) scrapeParams {
	return scrapeParams{
		AccessToken: request.GetString("accessToken", ""),
		Limit:       request.GetInt("limit", s.cfg.DefaultLimit),
		MinDate:     request.GetString("minDate", ""),
		MaxDate:     request.GetString("maxDate", ""),
		Keywords:    request.GetString("keywords", ""),
		Users:       request.GetString("users", ""),
		OnlyMedia:   request.GetBool("onlyMedia", false),
		OnlyText:    request.GetBool("onlyText", false),
	}
}

func (s *Server) telegramScrapeParams(request mcp.CallToolRequest) *telegramScrapeParams {
	return &telegramScrapeParams{
		scrapeParams: s.sharedParams(request),
		Chat:         request.GetString("chat", ""),
		Reverse:      request.GetBool("reverse", false),
	}
}

func (s *Server) slackScrapeParams(request mcp.CallToolRequest) *slackScrapeParams {
	return &slackScrapeParams{
		scrapeParams:   s.sharedParams(request),
		Channel:        request.GetString("channel", ""),
		IncludeThreads: request.GetBool("includeThreads", false),
	}
}

func requireToken(request mcp.CallToolRequest) (string, error) {
	token := request.GetString("accessToken", "")
	if token == "" {
		return "", ErrTokenRequired
	}
	return token, nil
}
