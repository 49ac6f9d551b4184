// Package filter implements the pure message predicates shared by both
// platform adapters. Every predicate is total and side-effect free so the
// adapters can apply them in any order.
package filter

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date form accepted in tool parameters.
const DateLayout = "2006-01-02"

// Spec bundles the caller-supplied filters for one scrape operation.
// Zero value means no filtering.
type Spec struct {
	MinDate   *time.Time // inclusive lower bound, UTC midnight
	MaxDate   *time.Time // inclusive upper bound, covers the whole day
	Keywords  string     // comma-separated, case-insensitive substrings
	Users     string     // comma-separated display names or canonical ids
	OnlyMedia bool
	OnlyText  bool
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s, expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// SplitList splits a comma-separated list, trimming whitespace, dropping
// empty entries and lowercasing each value.
func SplitList(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(csv, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// WithinDateRange reports whether ts falls inside [min, max]. The max bound
// is inclusive of the entire calendar day. A nil bound always passes.
func WithinDateRange(ts time.Time, min, max *time.Time) bool {
	if min != nil && ts.Before(*min) {
		return false
	}
	if max != nil {
		endOfDay := max.Add(24 * time.Hour)
		if !ts.Before(endOfDay) {
			return false
		}
	}
	return true
}

// ContainsKeywords reports whether text contains any keyword from the
// comma-separated list, case-insensitive. An empty list passes everything.
func ContainsKeywords(text, keywords string) bool {
	list := SplitList(keywords)
	if len(list) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, kw := range list {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// MatchesUser reports whether the sender matches any entry in the
// comma-separated user list. Display names match case-insensitively with or
// without a leading @; the canonical id matches by exact string equality.
// An empty list passes everything.
func MatchesUser(senderName, senderID, users string) bool {
	list := SplitList(users)
	if len(list) == 0 {
		return true
	}

	if senderName != "" {
		name := strings.TrimPrefix(strings.ToLower(senderName), "@")
		for _, u := range list {
			if u == name || u == "@"+name {
				return true
			}
		}
	}

	if senderID != "" {
		for _, u := range list {
			if u == senderID {
				return true
			}
		}
	}

	return false
}

// MatchesMedia applies the three-way media mode. Requesting both media-only
// and text-only is contradictory and degrades to no filter.
func MatchesMedia(hasMedia, onlyMedia, onlyText bool) bool {
	if onlyMedia && onlyText {
		return true
	}
	if onlyMedia && !hasMedia {
		return false
	}
	if onlyText && hasMedia {
		return false
	}
	return true
}
