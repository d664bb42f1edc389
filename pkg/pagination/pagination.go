package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any cursor query can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalization result plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Cursor keys a page position on (created_at, id) for tables with a
// surrogate uuid primary key, newest first.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// EncodeCursor serializes the position into an opaque cursor token.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a cursor token. An empty token means the first page.
func ParseCursor(value string) (*Cursor, error) {
	ts, id, err := splitToken(value)
	if err != nil || ts == "" {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: t, ID: parsed}, nil
}

// KeyedCursor keys a page position on (created_at, natural key) for join
// tables that carry no surrogate id, such as saved-product rows keyed by
// product. The timestamp travels at microsecond precision, which is what
// postgres stores, so the equality arm of the keyset predicate still matches
// after a round trip through the token.
type KeyedCursor struct {
	At  time.Time
	Key uuid.UUID
}

// EncodeKeyedCursor serializes the composite position into an opaque token.
func EncodeKeyedCursor(cursor KeyedCursor) string {
	payload := strconv.FormatInt(cursor.At.UTC().UnixMicro(), 10) + "|" + cursor.Key.String()
	return base64.StdEncoding.EncodeToString([]byte(payload))
}

// ParseKeyedCursor decodes a composite token. An empty token means the first page.
func ParseKeyedCursor(value string) (*KeyedCursor, error) {
	ts, key, err := splitToken(value)
	if err != nil || ts == "" {
		return nil, err
	}

	micros, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	parsed, err := uuid.Parse(key)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor key: %w", err)
	}
	return &KeyedCursor{At: time.UnixMicro(micros).UTC(), Key: parsed}, nil
}

func splitToken(value string) (string, string, error) {
	if strings.TrimSpace(value) == "" {
		return "", "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", fmt.Errorf("decode cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid cursor format")
	}
	return parts[0], parts[1], nil
}
