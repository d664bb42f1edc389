package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -3, DefaultLimit},
		{"in range passes through", 40, 40},
		{"above max is capped", 500, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeLimit(tc.in); got != tc.want {
				t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}

	if got := LimitWithBuffer(40); got != 41 {
		t.Fatalf("LimitWithBuffer(40) = %d, want 41", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 2, 14, 30, 0, 123456789, time.UTC)
	id := uuid.New()

	parsed, err := ParseCursor(EncodeCursor(Cursor{CreatedAt: at, ID: id}))
	if err != nil {
		t.Fatalf("parse cursor: %v", err)
	}
	if !parsed.CreatedAt.Equal(at) || parsed.ID != id {
		t.Fatalf("cursor did not round trip: %+v", parsed)
	}
}

func TestKeyedCursorRoundTripsAtMicrosecondPrecision(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 2, 14, 30, 0, 123456789, time.UTC)
	key := uuid.New()

	parsed, err := ParseKeyedCursor(EncodeKeyedCursor(KeyedCursor{At: at, Key: key}))
	if err != nil {
		t.Fatalf("parse keyed cursor: %v", err)
	}
	if !parsed.At.Equal(at.Truncate(time.Microsecond)) {
		t.Fatalf("expected %s at microsecond precision, got %s", at, parsed.At)
	}
	if parsed.Key != key {
		t.Fatalf("expected key %s, got %s", key, parsed.Key)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	t.Parallel()

	if c, err := ParseCursor("  "); err != nil || c != nil {
		t.Fatalf("expected nil cursor for blank token, got %v, %v", c, err)
	}
	if c, err := ParseKeyedCursor(""); err != nil || c != nil {
		t.Fatalf("expected nil keyed cursor for blank token, got %v, %v", c, err)
	}
}

func TestParseCursorRejectsMalformedTokens(t *testing.T) {
	t.Parallel()

	bad := []string{
		"not-base64!",
		base64.StdEncoding.EncodeToString([]byte("no-separator")),
		base64.StdEncoding.EncodeToString([]byte("2026-06-02T14:30:00Z|not-a-uuid")),
	}
	for _, token := range bad {
		if _, err := ParseCursor(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}

	keyedBad := []string{
		base64.StdEncoding.EncodeToString([]byte("not-a-number|" + uuid.New().String())),
		base64.StdEncoding.EncodeToString([]byte("1750000000000000|not-a-uuid")),
	}
	for _, token := range keyedBad {
		if _, err := ParseKeyedCursor(token); err == nil {
			t.Fatalf("expected error for keyed token %q", token)
		}
	}
}
