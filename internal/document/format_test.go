package document_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tubeqa/internal/document"
	"tubeqa/internal/transcript"
)

func TestFormat(t *testing.T) {
	segments := []transcript.Segment{
		{Text: "hello", Start: 0, Duration: 2 * time.Second},
		{Text: "world", Start: 65 * time.Second, Duration: 2 * time.Second},
	}

	got := document.Format("abc123", "https://youtu.be/abc123", segments)

	want := "Video ID: abc123\n" +
		"URL: https://youtu.be/abc123\n" +
		"\n" +
		"=== TRANSCRIPT ===\n" +
		"\n" +
		"[00:00] hello\n" +
		"[01:05] world"
	assert.Equal(t, want, got)
}

func TestFormat_Deterministic(t *testing.T) {
	segments := []transcript.Segment{
		{Text: "a", Start: 1 * time.Second},
		{Text: "b", Start: 2 * time.Second},
		{Text: "c", Start: 3 * time.Second},
	}

	first := document.Format("vid", "https://youtu.be/vid", segments)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, document.Format("vid", "https://youtu.be/vid", segments))
	}
}

func TestTimestamp_Truncates(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "00:00"},
		{900 * time.Millisecond, "00:00"},
		{59 * time.Second, "00:59"},
		{60 * time.Second, "01:00"},
		// 125.9s is 2m5s after truncation, never 2m6s
		{125*time.Second + 900*time.Millisecond, "02:05"},
		{3600 * time.Second, "60:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, document.Timestamp(tt.offset), "offset %v", tt.offset)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "abc123.txt", document.Key("abc123"))
}
