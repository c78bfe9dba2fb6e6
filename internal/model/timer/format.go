package timer

import "fmt"

// FormatElapsed renders seconds as MM:SS, or HH:MM:SS once an hour has passed.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// Milestone returns a short progress line for the elapsed time.
func Milestone(seconds int) string {
	switch {
	case seconds <= 0:
		return "Ready to start tracking? 🚀"
	case seconds < 60:
		return "Great start! Keep it going! ⭐"
	case seconds < 300:
		return "Amazing! Baby is getting some rest! 😊"
	case seconds < 1800:
		return "Wow! That's a solid nap! 🌟"
	default:
		return "Incredible! Baby is sleeping like a champ! 🏆"
	}
}
