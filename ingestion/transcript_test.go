package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTranscript(t *testing.T) {
	t.Run("valid transcript", func(t *testing.T) {
		doc := `{
			"video_link": "https://www.youtube.com/watch?v=abc123",
			"segment": [
				{"start": 0, "end": 12.5, "text": "بسم الله"},
				{"start": 12.5, "end": 30, "text": "الحمد لله"}
			]
		}`

		transcript, err := ParseTranscript(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, "https://www.youtube.com/watch?v=abc123", transcript.VideoLink)
		require.Len(t, transcript.Segments, 2)
		assert.Equal(t, 12.5, transcript.Segments[0].End)
		assert.Equal(t, "الحمد لله", transcript.Segments[1].Text)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseTranscript(strings.NewReader("{not json"))
		assert.ErrorIs(t, err, ErrInvalidTranscript)
	})

	t.Run("missing video link", func(t *testing.T) {
		_, err := ParseTranscript(strings.NewReader(`{"segment": [{"start": 0, "end": 1, "text": "x"}]}`))
		assert.ErrorIs(t, err, ErrInvalidTranscript)
	})

	t.Run("no spans", func(t *testing.T) {
		_, err := ParseTranscript(strings.NewReader(`{"video_link": "abc", "segment": []}`))
		assert.ErrorIs(t, err, ErrInvalidTranscript)
	})
}
