package core

import (
	"strconv"
	"strings"
)

// FormatDuration renders a number of seconds as human readable text,
// e.g. 3725 -> "1 hour 2 minutes 5 seconds".
// Anything under a minute is always rendered as "{n} seconds".
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return strconv.Itoa(seconds) + " seconds"
	}

	hours := seconds / 3600
	minutes := (seconds / 60) % 60
	remSeconds := seconds % 60

	var b strings.Builder
	switch {
	case hours > 0:
		b.WriteString(unit(hours, "hour"))
		if minutes > 0 {
			b.WriteString(" " + unit(minutes, "minute"))
		}
		if remSeconds > 0 {
			b.WriteString(" " + unit(remSeconds, "second"))
		}
	case minutes > 0:
		b.WriteString(unit(minutes, "minute"))
		if remSeconds > 0 {
			b.WriteString(" " + unit(remSeconds, "second"))
		}
	default:
		b.WriteString(strconv.Itoa(remSeconds) + " seconds")
	}
	return b.String()
}

func unit(n int, name string) string {
	if n > 1 {
		name += "s"
	}
	return strconv.Itoa(n) + " " + name
}
