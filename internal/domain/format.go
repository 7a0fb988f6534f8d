package domain

import (
	"fmt"
	"time"
)

const (
	oneKilobyte = 1024
	oneMegabyte = oneKilobyte * 1024
)

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with one decimal in binary units.
// Negative counts (a file that grew) keep their sign.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + FormatSize(-bytes)
	}
	if bytes < oneKilobyte {
		return fmt.Sprintf("%d B", bytes)
	}
	v := float64(bytes) / oneKilobyte
	unit := 0
	for v >= oneKilobyte && unit < len(sizeUnits)-1 {
		v /= oneKilobyte
		unit++
	}
	return fmt.Sprintf("%.1f %s", v, sizeUnits[unit])
}

// FormatDuration renders d as m:ss, or h:mm:ss past the hour.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "00:00"
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
