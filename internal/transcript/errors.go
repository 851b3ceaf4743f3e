package transcript

import (
	"errors"
	"fmt"
)

// Kind is the closed set of ways a transcript fetch can fail. Callers switch
// on the kind instead of matching error strings.
type Kind int

const (
	// KindInvalidLocator means no canonical video id could be derived.
	KindInvalidLocator Kind = iota
	// KindTranscriptsDisabled means the video exists but captions are off.
	KindTranscriptsDisabled
	// KindNoTranscript means a caption track exists but yielded no text.
	KindNoTranscript
	// KindSourceUnavailable covers private, removed, or region-locked videos.
	KindSourceUnavailable
	// KindUpstream is a transport-level failure talking to the provider.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidLocator:
		return "invalid_locator"
	case KindTranscriptsDisabled:
		return "transcripts_disabled"
	case KindNoTranscript:
		return "no_transcript"
	case KindSourceUnavailable:
		return "source_unavailable"
	case KindUpstream:
		return "upstream"
	}
	return "unknown"
}

type FetchError struct {
	Kind    Kind
	VideoID string
	Reason  string
	cause   error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("transcript fetch %s", e.Kind)
	if e.VideoID != "" {
		msg += fmt.Sprintf(" (video %s)", e.VideoID)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.cause
}

// KindOf extracts the failure kind, or KindUpstream for foreign errors.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUpstream
}
