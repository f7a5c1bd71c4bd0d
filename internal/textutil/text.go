package textutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// SanitizeLine makes s safe for one line of text output: tabs and newlines
// become spaces, other control characters become '?'.
func SanitizeLine(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n':
			return ' '
		case r < 0x20:
			return '?'
		}
		return r
	}, s)
}

const day = 24 * time.Hour

// RelativeDate renders then relative to now the way mail listings do:
// "5 mins. ago", "Today 14:05", "Yest. 09:30", "Mon. 10:00", "March 04",
// or an ISO date for anything older than about six months. Both times are
// interpreted in now's location.
func RelativeDate(then, now time.Time) string {
	then = then.In(now.Location())
	if then.After(now) {
		return "the future"
	}

	delta := now.Sub(then)
	if delta > 180*day {
		return then.Format("2006-01-02")
	}
	if delta < time.Hour {
		return fmt.Sprintf("%d mins. ago", int(delta/time.Minute))
	}

	if delta <= 7*day {
		switch {
		case then.Weekday() == now.Weekday() && delta < day:
			return then.Format("Today 15:04")
		case (int(now.Weekday())+7-int(then.Weekday()))%7 == 1:
			return then.Format("Yest. 15:04")
		case then.Weekday() != now.Weekday():
			return then.Format("Mon. 15:04")
		}
	}

	return then.Format("January 02")
}

// PadLeft right-aligns s in a field of the given display width. Strings
// already at least that wide are returned unchanged.
func PadLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
