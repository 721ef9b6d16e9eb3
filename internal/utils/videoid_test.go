package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tubesense/internal/apperrors"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch url extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bare id", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"whitespace", "  https://youtu.be/dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractVideoIDRejectsJunk(t *testing.T) {
	for _, input := range []string{
		"",
		"https://example.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/watch",
		"not a url at all",
		"https://youtu.be/tooshort",
	} {
		_, err := ExtractVideoID(input)
		require.Error(t, err, "input %q", input)
		require.True(t, apperrors.IsKind(err, apperrors.KindInvalidURL))
	}
}
