package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
	"github.com/zhouzirui/sleep-trainer/backend/internal/model/timer"
	"github.com/zhouzirui/sleep-trainer/backend/internal/policy/trigger"
)

// Generator produces an encouragement message for a request.
type Generator interface {
	Generate(ctx context.Context, req timer.Request) (string, error)
}

// Options tune a controller.
type Options struct {
	TriggerInterval   int
	GenerateTimeout   time.Duration
	SubscriberBuffer  int
	DisableInitialMsg bool
}

// Controller owns the timer state of a single session and decides, through
// the trigger policy, when to ask the generator for a new message.
type Controller struct {
	id        string
	generator Generator
	prompts   prompt.Set
	opts      Options

	// spawn runs a generation call; tests replace it to run synchronously.
	spawn func(func())

	mu          sync.Mutex
	state       timer.State
	policy      *trigger.Policy
	message     string
	loading     bool
	issuedSeq   uint64
	appliedSeq  uint64
	inFlight    int
	lastActive  time.Time
	subscribers map[chan Event]struct{}
	closed      bool
}

// NewController creates a paused session at 00:00 and requests the initial
// idle message unless disabled.
func NewController(id string, generator Generator, prompts prompt.Set, opts Options) *Controller {
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 20 * time.Second
	}
	if opts.SubscriberBuffer <= 0 {
		opts.SubscriberBuffer = 16
	}

	c := &Controller{
		id:          id,
		generator:   generator,
		prompts:     prompts,
		opts:        opts,
		spawn:       func(f func()) { go f() },
		policy:      trigger.New(opts.TriggerInterval),
		message:     prompts.Greeting,
		lastActive:  time.Now(),
		subscribers: make(map[chan Event]struct{}),
	}
	return c
}

// Init issues the initial idle request. It is separate from NewController so
// callers can adjust the controller before any generation starts.
func (c *Controller) Init() {
	if c.opts.DisableInitialMsg {
		return
	}
	c.mu.Lock()
	req, ok := c.policy.Decide(timer.ActionIdle, c.state.Elapsed, c.state.Running)
	dispatch := c.prepareLocked(req, ok)
	c.mu.Unlock()
	dispatch()
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Start resumes the timer.
func (c *Controller) Start() Snapshot {
	return c.apply(timer.ActionStart, func(s *timer.State) { s.Running = true })
}

// Pause stops the timer without clearing elapsed time.
func (c *Controller) Pause() Snapshot {
	return c.apply(timer.ActionPause, func(s *timer.State) { s.Running = false })
}

// Reset stops the timer and returns it to 00:00.
func (c *Controller) Reset() Snapshot {
	return c.apply(timer.ActionReset, func(s *timer.State) {
		s.Running = false
		s.Elapsed = 0
	})
}

// Asleep records that the baby fell asleep and pauses the timer.
func (c *Controller) Asleep() Snapshot {
	return c.apply(timer.ActionAsleep, func(s *timer.State) { s.Running = false })
}

// Do dispatches a named action.
func (c *Controller) Do(action timer.Action) (Snapshot, error) {
	switch action {
	case timer.ActionStart:
		return c.Start(), nil
	case timer.ActionPause, timer.ActionStop:
		return c.Pause(), nil
	case timer.ActionReset:
		return c.Reset(), nil
	case timer.ActionAsleep:
		return c.Asleep(), nil
	default:
		return Snapshot{}, timer.ErrUnknownAction
	}
}

func (c *Controller) apply(action timer.Action, mutate func(*timer.State)) Snapshot {
	c.mu.Lock()
	mutate(&c.state)
	c.lastActive = time.Now()
	if action == timer.ActionReset {
		c.policy.Reset()
	}
	req, ok := c.policy.OnAction(action, c.state.Elapsed, c.state.Running)
	dispatch := c.prepareLocked(req, ok)
	snap := c.snapshotLocked()
	c.publishLocked(Event{Type: EventState, Snapshot: snap})
	c.mu.Unlock()

	dispatch()
	return snap
}

// Tick advances a running timer by one second and requests a periodic
// message when a new bucket is entered. It never waits on generation.
func (c *Controller) Tick() Snapshot {
	c.mu.Lock()
	if !c.state.Running {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}

	c.state.Elapsed++
	c.lastActive = time.Now()
	req, ok := c.policy.OnTick(c.state.Elapsed, c.state.Running)
	dispatch := c.prepareLocked(req, ok)
	snap := c.snapshotLocked()
	c.publishLocked(Event{Type: EventState, Snapshot: snap})
	c.mu.Unlock()

	dispatch()
	return snap
}

// prepareLocked assigns a sequence number to a granted request and returns a
// function that starts the generation call once the lock is released.
func (c *Controller) prepareLocked(req timer.Request, ok bool) func() {
	if !ok || c.closed {
		return func() {}
	}

	c.issuedSeq++
	seq := c.issuedSeq
	c.inFlight++
	c.loading = true
	c.publishLocked(Event{Type: EventLoading, Snapshot: c.snapshotLocked()})

	return func() {
		c.spawn(func() { c.generate(seq, req) })
	}
}

func (c *Controller) generate(seq uint64, req timer.Request) {
	message, err := c.callGenerator(req)
	if err != nil {
		log.Printf("[session] generation failed for session=%s, action=%s, seq=%d: %v", c.id, req.Action, seq, err)
		message = c.prompts.PickFallback()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight--
	if c.inFlight == 0 {
		c.loading = false
	}

	if seq != c.issuedSeq {
		log.Printf("[session] dropping stale message for session=%s, seq=%d, latest=%d", c.id, seq, c.issuedSeq)
		c.publishLocked(Event{Type: EventLoading, Snapshot: c.snapshotLocked()})
		return
	}

	c.appliedSeq = seq
	c.message = message
	c.publishLocked(Event{Type: EventMessage, Snapshot: c.snapshotLocked()})
}

func (c *Controller) callGenerator(req timer.Request) (string, error) {
	if c.generator == nil {
		return "", ErrGeneratorUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.opts.GenerateTimeout)
	defer cancel()

	message, err := c.generator.Generate(ctx, req)
	if err != nil {
		return "", err
	}
	if message == "" {
		return "", ErrEmptyMessage
	}
	return message, nil
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID: c.id,
		Elapsed:   c.state.Elapsed,
		Display:   timer.FormatElapsed(c.state.Elapsed),
		Running:   c.state.Running,
		Message:   c.message,
		Loading:   c.loading,
		Milestone: timer.Milestone(c.state.Elapsed),
		Seq:       c.appliedSeq,
	}
}

// Subscribe registers for session events. The returned cancel function must
// be called to release the subscription.
func (c *Controller) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, c.opts.SubscriberBuffer)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	c.subscribers[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subscribers[ch]; ok {
				delete(c.subscribers, ch)
				close(ch)
			}
			c.lastActive = time.Now()
		})
	}
}

// publishLocked delivers the event to every subscriber that has room; slow
// subscribers miss events rather than blocking the timer.
func (c *Controller) publishLocked(evt Event) {
	for ch := range c.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// idleSince reports whether the session is paused, unobserved and untouched
// since the given time.
func (c *Controller) idleSince(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.state.Running && len(c.subscribers) == 0 && c.lastActive.Before(cutoff)
}

func (c *Controller) running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Running
}

// Close ends all subscriptions. Further requests are not dispatched.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for ch := range c.subscribers {
		delete(c.subscribers, ch)
		close(ch)
	}
}
