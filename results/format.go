package results

import (
	"fmt"
	"math"
)

// FormatTimestamp renders elapsed seconds as MM:SS. Minutes are total
// minutes, not wrapped at an hour, so 3661 seconds renders as "61:01".
// Negative, NaN and infinite inputs render as "00:00".
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
