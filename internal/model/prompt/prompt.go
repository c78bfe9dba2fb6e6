package prompt

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoFallbacks is returned when a prompt set has no fallback messages.
var ErrNoFallbacks = errors.New("prompt set requires at least one fallback message")

// Set groups the static texts used around text generation.
type Set struct {
	System    string   `yaml:"system"`
	Greeting  string   `yaml:"greeting"`
	Fallbacks []string `yaml:"fallbacks"`
}

// Default returns the built-in prompt set.
func Default() Set {
	return Set{
		System:    defaultSystemPrompt,
		Greeting:  "Sleep training is one of the hardest things parents do. You're not alone. 🤗",
		Fallbacks: append([]string(nil), defaultFallbacks...),
	}
}

// LoadFile reads a YAML prompt set and overlays its non-empty fields on the
// defaults. An empty path returns the defaults.
func LoadFile(path string) (Set, error) {
	set := Default()
	if strings.TrimSpace(path) == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read prompt file %s: %w", path, err)
	}

	var override Set
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Set{}, fmt.Errorf("parse prompt file %s: %w", path, err)
	}

	if s := strings.TrimSpace(override.System); s != "" {
		set.System = s
	}
	if s := strings.TrimSpace(override.Greeting); s != "" {
		set.Greeting = s
	}
	if override.Fallbacks != nil {
		fallbacks := make([]string, 0, len(override.Fallbacks))
		for _, f := range override.Fallbacks {
			if f = strings.TrimSpace(f); f != "" {
				fallbacks = append(fallbacks, f)
			}
		}
		if len(fallbacks) == 0 {
			return Set{}, ErrNoFallbacks
		}
		set.Fallbacks = fallbacks
	}

	return set, nil
}

// PickFallback returns one fallback message chosen uniformly at random.
func (s Set) PickFallback() string {
	if len(s.Fallbacks) == 0 {
		return defaultFallbacks[rand.Intn(len(defaultFallbacks))]
	}
	return s.Fallbacks[rand.Intn(len(s.Fallbacks))]
}

var defaultFallbacks = []string{
	"You're doing your best, and that's exactly what your baby needs. ❤️",
	"Sleep training is hard. You're showing up anyway. That's strength. 💪",
	"Every moment you track is progress. Keep going! 🌟",
}

const defaultSystemPrompt = `You are a warm, empathetic, and positive therapist supporting a parent who is sleep training their baby. Sleep training is one of the most emotionally draining and challenging experiences for parents. Your role is to:

- Provide genuine encouragement and validation
- Acknowledge how difficult sleep training is without minimizing their struggle
- Celebrate small wins and progress, no matter how small
- Remind them that they are doing their best and that's enough
- Be supportive without being overly cheerful or dismissive
- Validate their feelings and normalize the difficulty
- Offer gentle reminders about self-care when appropriate

Keep your messages:
- Short and impactful (1-2 sentences, max 100 words)
- Warm and personal, like talking to a friend
- Specific to their current situation
- Free of clichés or generic advice
- Focused on their strength and resilience

Use emojis sparingly (1-2 max) to add warmth without being excessive.`
