// Package scheduler runs low-frequency maintenance actions on independent
// cadences, throttled by a shared cooldown window so maintenance traffic
// never stacks on top of the primary action loop.
package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// GlobalCooldownMin and GlobalCooldownMax bound the randomized window
	// between scheduler-issued actions.
	GlobalCooldownMin = 3 * time.Second
	GlobalCooldownMax = 6 * time.Second
)

// Task is one scheduled maintenance action. A zero Interval makes the task
// one-shot: it is dropped after execution or on failure.
type Task struct {
	Name     string
	NextRun  time.Time
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler holds the task queue and the shared cooldown window.
type Scheduler struct {
	mu          sync.Mutex
	tasks       []*Task
	globalUntil time.Time
	log         zerolog.Logger
}

// New creates an empty scheduler.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{log: log.With().Str("component", "scheduler").Logger()}
}

// Add enqueues a task.
func (s *Scheduler) Add(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Tick executes at most one due task, and only once the shared cooldown
// window from the previous execution has elapsed. Repeating tasks are
// re-enqueued at now+interval; one-shot tasks are dropped after execution
// or on failure. Failures are logged, never retried early.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	if now.Before(s.globalUntil) {
		s.mu.Unlock()
		return
	}

	var due *Task
	idx := -1
	for i, t := range s.tasks {
		if t.NextRun.After(now) {
			continue
		}
		if due == nil || t.NextRun.Before(due.NextRun) {
			due = t
			idx = i
		}
	}
	if due == nil {
		s.mu.Unlock()
		return
	}

	if due.Interval > 0 {
		due.NextRun = now.Add(due.Interval)
	} else {
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	}
	s.globalUntil = now.Add(GlobalCooldownMin +
		time.Duration(rand.Int63n(int64(GlobalCooldownMax-GlobalCooldownMin))))
	s.mu.Unlock()

	// Run outside the lock; no lock is held across the network call.
	s.log.Info().Str("task", due.Name).Msg("running scheduled task")
	if err := due.Run(ctx); err != nil {
		s.log.Error().Err(err).Str("task", due.Name).Msg("scheduled task failed")
	}
}

// cooldownUntil exposes the window deadline for tests.
func (s *Scheduler) cooldownUntil() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalUntil
}
