package filter

import (
	"testing"
	"time"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid date", input: "2024-01-15", wantErr: false},
		{name: "invalid format", input: "15-01-2024", wantErr: true},
		{name: "not a date", input: "yesterday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && (got.Hour() != 0 || got.Location() != time.UTC) {
				t.Errorf("ParseDate(%q) = %v, want UTC midnight", tt.input, got)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "golang", want: []string{"golang"}},
		{name: "trims and lowercases", input: " Go , RUST ", want: []string{"go", "rust"}},
		{name: "drops empty entries", input: "a,,b,", want: []string{"a", "b"}},
		{name: "only separators", input: ", ,", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitList(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitList(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWithinDateRange(t *testing.T) {
	min := datePtr(2024, 1, 10)
	max := datePtr(2024, 1, 20)

	tests := []struct {
		name string
		ts   time.Time
		min  *time.Time
		max  *time.Time
		want bool
	}{
		{
			name: "inside range",
			ts:   time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
			min:  min, max: max,
			want: true,
		},
		{
			name: "exactly at min midnight",
			ts:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			min:  min, max: max,
			want: true,
		},
		{
			name: "end of max day is kept",
			ts:   time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC),
			min:  min, max: max,
			want: true,
		},
		{
			name: "midnight after max day is discarded",
			ts:   time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
			min:  min, max: max,
			want: false,
		},
		{
			name: "before min",
			ts:   time.Date(2024, 1, 9, 23, 59, 59, 0, time.UTC),
			min:  min, max: max,
			want: false,
		},
		{
			name: "unbounded min",
			ts:   time.Date(2000, 6, 1, 0, 0, 0, 0, time.UTC),
			min:  nil, max: max,
			want: true,
		},
		{
			name: "unbounded max",
			ts:   time.Date(2099, 6, 1, 0, 0, 0, 0, time.UTC),
			min:  min, max: nil,
			want: true,
		},
		{
			name: "no bounds",
			ts:   time.Now(),
			min:  nil, max: nil,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinDateRange(tt.ts, tt.min, tt.max); got != tt.want {
				t.Errorf("WithinDateRange(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestContainsKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords string
		want     bool
	}{
		{name: "no filter passes", text: "anything", keywords: "", want: true},
		{name: "case-insensitive match", text: "Hello World", keywords: "xyz,WORLD", want: true},
		{name: "no match discards", text: "Hello World", keywords: "xyz,abc", want: false},
		{name: "substring match", text: "deploying to production", keywords: "deploy", want: true},
		{name: "whitespace-only list passes", text: "anything", keywords: " , ", want: true},
		{name: "empty text with filter", text: "", keywords: "go", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsKeywords(tt.text, tt.keywords); got != tt.want {
				t.Errorf("ContainsKeywords(%q, %q) = %v, want %v", tt.text, tt.keywords, got, tt.want)
			}
		})
	}
}

func TestMatchesUser(t *testing.T) {
	tests := []struct {
		name       string
		senderName string
		senderID   string
		users      string
		want       bool
	}{
		{name: "no filter passes", senderName: "alice", senderID: "1", users: "", want: true},
		{name: "name match", senderName: "alice", senderID: "1", users: "bob,alice", want: true},
		{name: "name match case-insensitive", senderName: "Alice", senderID: "1", users: "ALICE", want: true},
		{name: "marker prefix on sender", senderName: "@alice", senderID: "1", users: "alice", want: true},
		{name: "marker prefix in filter", senderName: "alice", senderID: "1", users: "@alice", want: true},
		{name: "id exact match", senderName: "", senderID: "123456", users: "123456", want: true},
		{name: "id partial does not match", senderName: "", senderID: "123456", users: "123", want: false},
		{name: "id match is exact, not case-folded", senderName: "", senderID: "U123ABC", users: "U123ABC", want: false},
		{name: "no match", senderName: "carol", senderID: "9", users: "alice,bob", want: false},
		{name: "unresolvable sender with filter", senderName: "", senderID: "", users: "alice", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesUser(tt.senderName, tt.senderID, tt.users); got != tt.want {
				t.Errorf("MatchesUser(%q, %q, %q) = %v, want %v",
					tt.senderName, tt.senderID, tt.users, got, tt.want)
			}
		})
	}
}

func TestMatchesMedia(t *testing.T) {
	tests := []struct {
		name      string
		hasMedia  bool
		onlyMedia bool
		onlyText  bool
		want      bool
	}{
		{name: "no filter text", hasMedia: false, want: true},
		{name: "no filter media", hasMedia: true, want: true},
		{name: "media-only keeps media", hasMedia: true, onlyMedia: true, want: true},
		{name: "media-only drops text", hasMedia: false, onlyMedia: true, want: false},
		{name: "text-only keeps text", hasMedia: false, onlyText: true, want: true},
		{name: "text-only drops media", hasMedia: true, onlyText: true, want: false},
		{name: "contradiction keeps media", hasMedia: true, onlyMedia: true, onlyText: true, want: true},
		{name: "contradiction keeps text", hasMedia: false, onlyMedia: true, onlyText: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesMedia(tt.hasMedia, tt.onlyMedia, tt.onlyText); got != tt.want {
				t.Errorf("MatchesMedia(%v, %v, %v) = %v, want %v",
					tt.hasMedia, tt.onlyMedia, tt.onlyText, got, tt.want)
			}
		})
	}
}

// contradictory media mode must be equivalent to no filter over a mixed set
func TestMatchesMedia_ContradictionEqualsNoFilter(t *testing.T) {
	mixed := []bool{true, false, true, false, false}
	for i, hasMedia := range mixed {
		noFilter := MatchesMedia(hasMedia, false, false)
		contradiction := MatchesMedia(hasMedia, true, true)
		if noFilter != contradiction {
			t.Errorf("message %d: contradiction = %v, no filter = %v", i, contradiction, noFilter)
		}
	}
}
