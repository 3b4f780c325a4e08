package output

import (
	"fmt"
	"math"
)

// Timestamp formats seconds as a subtitle timestamp HH:MM:SS,mmm.
// NaN and negative values are treated as zero, milliseconds are truncated
func Timestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	ms := int64(seconds * 1000)
	hh := ms / 3600000
	ms %= 3600000
	mm := ms / 60000
	ms %= 60000
	ss := ms / 1000
	ms %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hh, mm, ss, ms)
}
