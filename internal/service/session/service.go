package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/sleep-trainer/backend/internal/model/prompt"
)

// Config controls the session registry.
type Config struct {
	TTL             time.Duration
	TriggerInterval int
	GenerateTimeout time.Duration
}

// Service keeps the live sessions in memory and drives their clocks.
type Service struct {
	generator Generator
	prompts   prompt.Set
	cfg       Config

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewService bootstraps the in-memory session registry. generator may be nil,
// in which case every message comes from the fallback list.
func NewService(generator Generator, prompts prompt.Set, cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Service{
		generator: generator,
		prompts:   prompts,
		cfg:       cfg,
		sessions:  make(map[string]*Controller),
	}
}

// Create provisions a new paused session.
func (s *Service) Create(_ context.Context) *Controller {
	c := NewController(uuid.NewString(), s.generator, s.prompts, Options{
		TriggerInterval: s.cfg.TriggerInterval,
		GenerateTimeout: s.cfg.GenerateTimeout,
	})

	s.mu.Lock()
	s.sessions[c.ID()] = c
	s.mu.Unlock()

	c.Init()
	log.Printf("[session] created session=%s", c.ID())
	return c
}

// Get retrieves a session by identifier.
func (s *Service) Get(_ context.Context, id string) (*Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}

// Delete removes a session and closes its subscriptions.
func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	c, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	c.Close()
	log.Printf("[session] deleted session=%s", id)
	return nil
}

// Count returns the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Run ticks every running session once per second and sweeps idle sessions
// until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.TickAll()
		case now := <-sweep.C:
			s.Sweep(now)
		}
	}
}

// TickAll advances every running session by one second.
func (s *Service) TickAll() {
	for _, c := range s.snapshotList() {
		if c.running() {
			c.Tick()
		}
	}
}

// Sweep removes sessions that have been idle for longer than the TTL.
func (s *Service) Sweep(now time.Time) int {
	cutoff := now.Add(-s.cfg.TTL)
	removed := 0
	for _, c := range s.snapshotList() {
		if !c.idleSince(cutoff) {
			continue
		}
		if err := s.Delete(context.Background(), c.ID()); err == nil {
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[session] swept %d idle sessions", removed)
	}
	return removed
}

func (s *Service) snapshotList() []*Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*Controller, 0, len(s.sessions))
	for _, c := range s.sessions {
		list = append(list, c)
	}
	return list
}
