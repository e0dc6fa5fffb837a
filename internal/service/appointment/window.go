package appointment

import (
	"fmt"
	"strconv"
	"time"
)

// ValidateWindow checks a candidate [start, end] against now and the
// configured duration bounds. A max of zero or less means unbounded.
func ValidateWindow(start, end, now time.Time, minMinutes, maxMinutes int) error {
	if start.Before(now) || end.Before(now) {
		return newError(KindInvalidWindow, "Appointment Start date or end date cannot be in the past")
	}
	if end.Before(start) {
		return newError(KindInvalidWindow, "Appointment end date cannot be before start date")
	}

	minutes := int(end.Sub(start) / time.Minute)
	if minutes < minMinutes {
		return newError(KindTooShort, fmt.Sprintf("Appointment Schedule must be at least %d minutes", minMinutes))
	}
	if maxMinutes > 0 && minutes > maxMinutes {
		return newError(KindTooLong, "Appointment duration cannot exceed "+durationLabel(maxMinutes))
	}
	return nil
}

func durationLabel(minutes int) string {
	if minutes > 60 {
		return strconv.FormatFloat(float64(minutes)/60, 'f', -1, 64) + " hours"
	}
	return strconv.Itoa(minutes) + " minutes"
}
