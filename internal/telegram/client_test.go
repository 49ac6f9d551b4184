package telegram

import (
	"testing"
)

func TestNormalizeRef(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare username", input: "golang_news", want: "golang_news"},
		{name: "with marker", input: "@golang_news", want: "golang_news"},
		{name: "https link", input: "https://t.me/golang_news", want: "golang_news"},
		{name: "http link", input: "http://t.me/golang_news", want: "golang_news"},
		{name: "short link", input: "t.me/golang_news", want: "golang_news"},
		{name: "link with marker", input: "https://t.me/@golang_news", want: "golang_news"},
		{name: "surrounding whitespace", input: "  @golang_news ", want: "golang_news"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeRef(tt.input); got != tt.want {
				t.Errorf("normalizeRef(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripChannelPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  int64
	}{
		{name: "bare id", input: 123456789, want: 123456789},
		{name: "supergroup form", input: -1001234567890, want: 1234567890},
		{name: "negative without prefix", input: -123456789, want: 123456789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripChannelPrefix(tt.input); got != tt.want {
				t.Errorf("stripChannelPrefix(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestScraper_CloseWithoutConnect(t *testing.T) {
	s := NewScraper(nil, nil, 0)

	// must be safe in the disconnected state and when called twice
	s.Close()
	s.Close()
}

func TestNewScraper_MaxPages(t *testing.T) {
	if got := NewScraper(nil, nil, 10).maxPages; got != 10 {
		t.Errorf("maxPages = %d, want the configured 10", got)
	}
	if got := NewScraper(nil, nil, 0).maxPages; got != defaultMaxPages {
		t.Errorf("maxPages = %d, want the default %d", got, defaultMaxPages)
	}
}
