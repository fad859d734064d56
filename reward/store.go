package reward

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultDisplay is how long an event stays on screen before it expires.
const DefaultDisplay = 5 * time.Second

// ErrEventInvalid is returned by [Store.Show] for events with negative
// amounts or an inconsistent level-up.
var ErrEventInvalid = errors.New("reward event invalid")

// ErrStoreClosed is returned by [Store.Show] once the store is closed.
var ErrStoreClosed = errors.New("reward store closed")

// Event is one reward notification: XP and ticket gains from a completed
// action, plus the level reached when the action caused a level-up. It is a
// value object; its only identity is "the currently displayed reward".
type Event struct {
	XP      int
	Tickets int
	LevelUp bool
	// NewLevel is meaningful only when LevelUp is true.
	NewLevel int
}

// Validate checks the event's value constraints.
func (e Event) Validate() error {
	if e.XP < 0 || e.Tickets < 0 {
		return fmt.Errorf("%w: negative amounts", ErrEventInvalid)
	}
	if e.LevelUp && e.NewLevel < 1 {
		return fmt.Errorf("%w: level-up without a level", ErrEventInvalid)
	}
	if !e.LevelUp && e.NewLevel != 0 {
		return fmt.Errorf("%w: level set without level-up", ErrEventInvalid)
	}
	return nil
}

// Config tunes the store. The zero value displays events for
// [DefaultDisplay].
type Config struct {
	Display time.Duration
}

// Hooks receive slot transitions for audit and metrics wiring. Hooks are
// invoked outside the store's lock and must not call back into the store.
type Hooks struct {
	// OnShow fires for every displayed event.
	OnShow func(Event)
	// OnReplace fires when a new event supersedes one still on display.
	OnReplace func(Event)
	// OnExpire fires when the countdown clears the slot.
	OnExpire func(Event)
}

// Store is the single-slot notification store shared by the whole UI tree.
type Store struct {
	display time.Duration
	hooks   Hooks

	mu      sync.Mutex
	current Event
	has     bool
	gen     uint64
	timer   *time.Timer
	subs    map[uint64]func(Event, bool)
	subSeq  uint64
	closed  bool
}

// NewStore creates a reward store. A non-positive display window falls back
// to [DefaultDisplay].
func NewStore(cfg Config, hooks Hooks) *Store {
	if cfg.Display <= 0 {
		cfg.Display = DefaultDisplay
	}
	return &Store{
		display: cfg.Display,
		hooks:   hooks,
		subs:    make(map[uint64]func(Event, bool)),
	}
}

// Show replaces any currently displayed event with e and restarts the
// countdown. Cancelling the previous countdown and arming the new one happen
// in one critical section, so no two countdowns are ever active and a stale
// countdown can never clear a newer event.
func (s *Store) Show(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}

	replaced := s.has
	previous := s.current
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.current = e
	s.has = true
	s.timer = time.AfterFunc(s.display, func() { s.expire(gen) })
	notify := s.snapshotSubsLocked()
	s.mu.Unlock()

	if replaced && s.hooks.OnReplace != nil {
		s.hooks.OnReplace(previous)
	}
	if s.hooks.OnShow != nil {
		s.hooks.OnShow(e)
	}
	for _, fn := range notify {
		fn(e, true)
	}
	return nil
}

// expire clears the slot, but only if gen still identifies the countdown
// that was armed for the displayed event.
func (s *Store) expire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen || !s.has {
		s.mu.Unlock()
		return
	}
	expired := s.current
	s.current = Event{}
	s.has = false
	notify := s.snapshotSubsLocked()
	s.mu.Unlock()

	if s.hooks.OnExpire != nil {
		s.hooks.OnExpire(expired)
	}
	for _, fn := range notify {
		fn(Event{}, false)
	}
}

// Current returns the displayed event, if any.
func (s *Store) Current() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.has
}

// Subscribe registers a read-side observer. It is called with (event, true)
// when a reward is shown and (zero, false) when the slot clears. The
// returned function unsubscribes and is safe to call more than once.
func (s *Store) Subscribe(fn func(Event, bool)) func() {
	s.mu.Lock()
	s.subSeq++
	id := s.subSeq
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close stops the countdown and rejects further Show calls.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Store) snapshotSubsLocked() []func(Event, bool) {
	notify := make([]func(Event, bool), 0, len(s.subs))
	for _, fn := range s.subs {
		notify = append(notify, fn)
	}
	return notify
}
