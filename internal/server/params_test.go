package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  telegramScrapeParams
		wantErr error
	}{
		{
			name: "valid minimal",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 100},
				Chat:         "golang",
			},
		},
		{
			name: "valid with dates",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 1, MinDate: "2024-01-01", MaxDate: "2024-06-30"},
				Chat:         "golang",
			},
		},
		{
			name:    "missing chat",
			params:  telegramScrapeParams{scrapeParams: scrapeParams{AccessToken: "t", Limit: 100}},
			wantErr: ErrChatRequired,
		},
		{
			name: "missing token",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{Limit: 100},
				Chat:         "golang",
			},
			wantErr: ErrTokenRequired,
		},
		{
			name: "limit zero",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 0},
				Chat:         "golang",
			},
			wantErr: ErrLimitRange,
		},
		{
			name: "limit over ceiling",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 1001},
				Chat:         "golang",
			},
			wantErr: ErrLimitRange,
		},
		{
			name: "malformed min date",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 100, MinDate: "01/02/2024"},
				Chat:         "golang",
			},
			wantErr: ErrInvalidMinDate,
		},
		{
			name: "malformed max date",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 100, MaxDate: "yesterday"},
				Chat:         "golang",
			},
			wantErr: ErrInvalidMaxDate,
		},
		{
			name: "inverted date window",
			params: telegramScrapeParams{
				scrapeParams: scrapeParams{AccessToken: "t", Limit: 100, MinDate: "2024-06-30", MaxDate: "2024-01-01"},
				Chat:         "golang",
			},
			wantErr: ErrDateOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate(1000)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestScrapeParamsValidate_LimitMessageTracksCeiling(t *testing.T) {
	p := telegramScrapeParams{
		scrapeParams: scrapeParams{AccessToken: "t", Limit: 501},
		Chat:         "golang",
	}

	err := p.Validate(500)
	require.ErrorIs(t, err, ErrLimitRange)
	assert.Contains(t, err.Error(), "between 1 and 500")
}

func TestSlackScrapeParamsValidate(t *testing.T) {
	p := slackScrapeParams{scrapeParams: scrapeParams{AccessToken: "t", Limit: 100}}
	assert.ErrorIs(t, p.Validate(1000), ErrChannelRequired)

	p.Channel = "general"
	assert.NoError(t, p.Validate(1000))
}

func TestFilterSpecFromParams(t *testing.T) {
	p := scrapeParams{
		MinDate:  "2024-01-15",
		Keywords: "deploy, release",
		Users:    "alice",
		OnlyText: true,
	}
	spec := p.FilterSpec()

	require.NotNil(t, spec.MinDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *spec.MinDate)
	assert.Nil(t, spec.MaxDate)
	assert.Equal(t, "deploy, release", spec.Keywords)
	assert.True(t, spec.OnlyText)
	assert.False(t, spec.OnlyMedia)
}
