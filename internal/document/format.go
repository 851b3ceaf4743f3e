// Package document builds the indexable transcript documents persisted to
// the knowledge-base bucket. Formatting is pure: the same video id, URL, and
// segment sequence always produce byte-identical output, so re-ingesting a
// video is an idempotent overwrite.
package document

import (
	"fmt"
	"strings"
	"time"

	"tubeqa/internal/transcript"
)

const ContentType = "text/plain; charset=utf-8"

// Key is the object key for a video's document. Deterministic per video id,
// so the last ingestion wins.
func Key(videoID string) string {
	return videoID + ".txt"
}

// Format renders the document:
//
//	Video ID: <id>
//	URL: <source url>
//
//	=== TRANSCRIPT ===
//
//	[MM:SS] <segment text>
//	...
func Format(videoID, sourceURL string, segments []transcript.Segment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Video ID: %s\n", videoID)
	fmt.Fprintf(&b, "URL: %s\n\n", sourceURL)
	b.WriteString("=== TRANSCRIPT ===\n")

	for _, seg := range segments {
		fmt.Fprintf(&b, "\n[%s] %s", Timestamp(seg.Start), seg.Text)
	}
	return b.String()
}

// Timestamp renders an offset as zero-padded MM:SS, truncating (never
// rounding) to whole seconds.
func Timestamp(offset time.Duration) string {
	total := int(offset / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
