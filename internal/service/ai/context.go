package ai

import (
	"fmt"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
)

// BuildContext describes the parent's current situation for the model.
func BuildContext(req timer.Request) string {
	t := req.Time
	if t < 0 {
		t = 0
	}
	hours := t / 3600
	minutes := t / 60
	seconds := t % 60

	switch req.Action {
	case timer.ActionAsleep:
		var tracked string
		switch {
		case hours > 0:
			tracked = fmt.Sprintf("%d hour%s and %d minute%s", hours, plural(hours), minutes%60, pluralUnlessOne(minutes%60))
		case minutes > 0:
			tracked = fmt.Sprintf("%d minute%s", minutes, plural(minutes))
			if seconds > 0 {
				tracked += fmt.Sprintf(" and %d seconds", seconds)
			}
		default:
			tracked = "a few moments"
		}
		return fmt.Sprintf("The parent just celebrated that their baby is asleep! This is a huge win. They tracked %s of sleep training. This is a moment of success and relief that deserves celebration.", tracked)

	case timer.ActionStart:
		return "The parent just started the sleep training timer. They're taking action and beginning this challenging journey."

	case timer.ActionStop, timer.ActionPause:
		return fmt.Sprintf("The parent paused the timer after %s. They may be feeling overwhelmed or need a break.", minutesOr(minutes, "a few seconds"))

	case timer.ActionReset:
		return "The parent reset the timer. They're starting fresh, which shows resilience and determination."
	}

	if req.IsRunning {
		switch {
		case hours > 0:
			return fmt.Sprintf("The parent has been tracking sleep training for %d hour%s and %d minute%s. This is a long session and they're showing incredible dedication.", hours, plural(hours), minutes%60, pluralUnlessOne(minutes%60))
		case minutes > 0:
			return fmt.Sprintf("The parent has been tracking sleep training for %d minute%s. They're in the middle of a session and showing persistence.", minutes, plural(minutes))
		default:
			return "The parent just started tracking and is in the first minute. The beginning is often the hardest part."
		}
	}

	if t == 0 {
		return "The parent is ready to start sleep training. They haven't begun tracking yet but are preparing to take on this challenging task."
	}
	return fmt.Sprintf("The parent has %s tracked but the timer is paused. They're taking a break.", minutesOr(minutes, "some time"))
}

// BuildUserPrompt wraps the context in the instruction sent as the user turn.
func BuildUserPrompt(action timer.Action, context string) string {
	if action == timer.ActionAsleep {
		return "Generate a celebratory, joyful message for this parent celebrating that their baby is asleep. This is a major victory! Be genuinely happy for them and acknowledge this success. Context: " + context
	}
	return "Generate a supportive, encouraging message for this parent. Context: " + context
}

func minutesOr(minutes int, none string) string {
	if minutes <= 0 {
		return none
	}
	return fmt.Sprintf("%d minute%s", minutes, plural(minutes))
}

// plural is used for counts that are known to be positive.
func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// pluralUnlessOne also pluralizes zero ("0 minutes").
func pluralUnlessOne(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}
