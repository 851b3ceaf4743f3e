package transcript

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ParseVideoID derives the canonical video id from a locator: a
// watch/shorts/embed/live URL, a youtu.be short link, or a bare id. Only the
// charset is validated, not the length; whatever id YouTube will answer for
// is accepted as-is.
func ParseVideoID(locator string) (string, error) {
	s := strings.TrimSpace(locator)
	if videoIDPattern.MatchString(s) {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", &FetchError{Kind: KindInvalidLocator, Reason: "not a video URL or id", cause: err}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	var id string
	switch host {
	case "youtu.be":
		id = firstPathSegment(u.Path)
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		// /embed/<id>, /shorts/<id>, /live/<id>, /v/<id>
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "embed", "shorts", "live", "v":
				id = parts[1]
			}
		}
	}

	if !videoIDPattern.MatchString(id) {
		return "", &FetchError{Kind: KindInvalidLocator, Reason: "no video id in " + s}
	}
	return id, nil
}

func firstPathSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}
