// Package auth parses and validates caller-supplied platform credentials.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// credential validation errors
var (
	ErrTelegramTokenShape = errors.New("invalid telegram token format, expected api_id:api_hash:phone:session_string")
	ErrTelegramAPIID      = errors.New("invalid api_id: must be a number")
	ErrTelegramAPIHash    = errors.New("invalid api_hash: too short")
	ErrTelegramPhone      = errors.New("invalid phone: must start with +")
	ErrTelegramSession    = errors.New("invalid session_string: cannot be empty")
	ErrSlackTokenEmpty    = errors.New("slack token cannot be empty")
	ErrSlackTokenPrefix   = errors.New("invalid slack token format, must start with xoxb- (bot) or xoxp- (user)")
	ErrSlackTokenShort    = errors.New("invalid slack token: too short")
)

const (
	minAPIHashLen    = 10
	minSlackTokenLen = 20
)

// TelegramCredentials holds the four fields of the telegram composite token.
type TelegramCredentials struct {
	APIID   int    // numeric application id
	APIHash string // application secret
	Phone   string // account phone number with international prefix
	Session string // exported session string
}

// ParseTelegramToken parses a composite token of the form
// api_id:api_hash:phone:session_string. Every field is validated and a
// specific error is returned on the first violation; a partial credential
// is never returned.
func ParseTelegramToken(raw string) (*TelegramCredentials, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w (got %d fields)", ErrTelegramTokenShape, len(parts))
	}

	apiID, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, ErrTelegramAPIID
	}

	if len(parts[1]) < minAPIHashLen {
		return nil, ErrTelegramAPIHash
	}

	if !strings.HasPrefix(parts[2], "+") {
		return nil, ErrTelegramPhone
	}

	if parts[3] == "" {
		return nil, ErrTelegramSession
	}

	return &TelegramCredentials{
		APIID:   apiID,
		APIHash: parts[1],
		Phone:   parts[2],
		Session: parts[3],
	}, nil
}

// ValidateSlackToken checks a slack bearer token by prefix and length.
func ValidateSlackToken(raw string) error {
	if raw == "" {
		return ErrSlackTokenEmpty
	}
	if !strings.HasPrefix(raw, "xoxb-") && !strings.HasPrefix(raw, "xoxp-") {
		return ErrSlackTokenPrefix
	}
	if len(raw) < minSlackTokenLen {
		return ErrSlackTokenShort
	}
	return nil
}
