package utils

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/spacesedan/tubesense/internal/apperrors"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video id out of the YouTube URL
// shapes users paste: watch?v=, youtu.be/, shorts/, embed/, or a bare id.
func ExtractVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", apperrors.InvalidURL(input)
	}

	if videoIDPattern.MatchString(input) {
		return input, nil
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", apperrors.InvalidURL(input)
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := parsed.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, nil
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(parsed.Path, prefix) {
				id := strings.Trim(strings.TrimPrefix(parsed.Path, prefix), "/")
				if videoIDPattern.MatchString(id) {
					return id, nil
				}
			}
		}
	case "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if videoIDPattern.MatchString(id) {
			return id, nil
		}
	}

	return "", apperrors.InvalidURL(input)
}
