package utils

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// CalculateHours returns the hours elapsed between two "HH:MM" times of day with
// one decimal digit. An end before the start is taken as crossing midnight once.
// Missing or malformed input yields "0.0".
func CalculateHours(start, end string) string {
	startMin, ok := minutesOfDay(start)
	if !ok {
		return "0.0"
	}
	endMin, ok := minutesOfDay(end)
	if !ok {
		return "0.0"
	}

	diff := endMin - startMin
	if diff < 0 {
		diff += minutesPerDay
	}

	// Quarter hours are the only exact binary ties and they round up. Every
	// other value rounds to the tenth nearest its float64, so 9 minutes is 0.1.
	if diff%30 == 15 {
		tenths := (diff + 3) / 6
		return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
	}
	return strconv.FormatFloat(float64(diff)/60, 'f', 1, 64)
}

func minutesOfDay(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
