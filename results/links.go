package results

import (
	"fmt"
	"math"
	"strings"
)

// VideoID derives a normalized video identifier from the heterogeneous link
// formats found in stored segments: a canonical watch URL, a short-link
// form, or a bare identifier.
func VideoID(link string) string {
	if idx := strings.Index(link, "youtube.com/watch?v="); idx >= 0 {
		id := link[idx+len("youtube.com/watch?v="):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	if idx := strings.Index(link, "youtu.be/"); idx >= 0 {
		id := link[idx+len("youtu.be/"):]
		if q := strings.IndexByte(id, '?'); q >= 0 {
			id = id[:q]
		}
		return id
	}
	return link
}

// DeepLink constructs a watch URL that jumps to the start offset, in whole
// seconds, of the segment inside its source video. Negative and non-finite
// offsets are clamped to zero.
func DeepLink(link string, start float64) string {
	id := VideoID(link)
	if id == "" {
		return ""
	}

	if math.IsNaN(start) || math.IsInf(start, 0) || start < 0 {
		start = 0
	}
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", id, int(start))
}
