// internal/gameover/format.go
//
// Elapsed-time formatting for the round summary.

package gameover

import (
	"fmt"
	"time"
)

// FormatElapsed renders the minutes and seconds components as "MM.SS".
// Hours are dropped, so 1h02m05s shows as "02.05".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d/time.Minute) % 60
	s := int(d/time.Second) % 60
	return fmt.Sprintf("%02d.%02d", m, s)
}
