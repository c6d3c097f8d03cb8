package handler

import (
	"fmt"
	"time"
)

var shortMonths = [...]string{
	"Jan", "Feb", "March", "April", "May", "June",
	"July", "Aug", "Sept", "Oct", "Nov", "Dec",
}

// formatHumanTime renders a timestamp for page footers, e.g.
// "Sept 27th, 2025 @ 4:13pm".
func formatHumanTime(t time.Time) string {
	month := shortMonths[t.Month()-1]

	day := t.Day()
	suffix := "th"
	switch day % 10 {
	case 1:
		if day != 11 {
			suffix = "st"
		}
	case 2:
		if day != 12 {
			suffix = "nd"
		}
	case 3:
		if day != 13 {
			suffix = "rd"
		}
	}

	hour := t.Hour()
	meridiem := "am"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "pm"
	case hour > 12:
		hour -= 12
		meridiem = "pm"
	}

	return fmt.Sprintf("%s %d%s, %d @ %d:%02d%s",
		month, day, suffix, t.Year(), hour, t.Minute(), meridiem)
}
