// Package trigger decides when a session should ask for a new encouragement
// message, so that an unchanged situation does not produce redundant calls.
package trigger

import "github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"

// Policy remembers the last context key and the elapsed time of the last
// trigger. The zero value is not usable; call New.
type Policy struct {
	interval    int
	lastKey     timer.ContextKey
	hasKey      bool
	lastTrigger int
}

// New returns a policy with the given periodic interval in seconds.
func New(interval int) *Policy {
	if interval <= 0 {
		interval = timer.BucketSeconds
	}
	return &Policy{interval: interval}
}

// Interval returns the periodic interval in seconds.
func (p *Policy) Interval() int {
	return p.interval
}

// OnAction evaluates a user action. Discrete actions always request; reset and
// asleep additionally leave the dedup key cleared.
func (p *Policy) OnAction(action timer.Action, elapsed int, running bool) (timer.Request, bool) {
	if action.ClearsContext() {
		p.clear()
	}
	if action == timer.ActionReset {
		elapsed = 0
	}

	req, ok := p.Decide(action, elapsed, running)
	if !ok {
		return req, false
	}

	if action.Discrete() {
		p.lastTrigger = elapsed
	}
	if action.ClearsContext() {
		p.hasKey = false
	}
	return req, true
}

// OnTick evaluates a timer tick. A running request is granted only when the
// elapsed time enters a later bucket than the last trigger, and never at 0.
func (p *Policy) OnTick(elapsed int, running bool) (timer.Request, bool) {
	if !running || elapsed <= 0 {
		return timer.Request{}, false
	}

	current := elapsed / p.interval
	if current <= 0 || current <= p.lastTrigger/p.interval {
		return timer.Request{}, false
	}

	req, ok := p.Decide(timer.ActionRunning, elapsed, running)
	if ok {
		p.lastTrigger = elapsed
	}
	return req, ok
}

// Decide is the dedup gate. It suppresses a non-discrete request whose context
// key matches the previous one, and records the key of every granted request.
func (p *Policy) Decide(action timer.Action, elapsed int, running bool) (timer.Request, bool) {
	key := timer.KeyFor(action, elapsed, running, p.interval)
	if p.hasKey && key == p.lastKey && !action.Discrete() {
		return timer.Request{}, false
	}

	p.lastKey = key
	p.hasKey = true
	return timer.Request{Action: action, Time: elapsed, IsRunning: running}, true
}

// Reset forgets all trigger memory.
func (p *Policy) Reset() {
	p.clear()
	p.lastTrigger = 0
}

func (p *Policy) clear() {
	p.lastKey = timer.ContextKey{}
	p.hasKey = false
}
