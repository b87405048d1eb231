// Package scheduler fires publishing on a fixed interval or a cron schedule. The first run
// happens one interval after start, never right away. A scheduler can be started once and,
// after it is stopped, stays stopped.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/tweetbot/pkg/publisher"
)

//go:generate moq -out mocks/publisher.go -pkg mocks -skip-ensure -fmt goimports . Publisher

// Publisher is the job scheduler runs
type Publisher interface {
	Publish(ctx context.Context) publisher.Outcome
}

// Params for New, Cron takes precedence over Interval
type Params struct {
	Publisher Publisher
	Interval  time.Duration // default 8h
	Cron      string        // standard 5-field cron expression or descriptor like @daily
	Clock     Clock         // default real time
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Scheduler runs Publisher periodically
type Scheduler struct {
	publisher Publisher
	schedule  cron.Schedule
	clock     Clock
	descr     string

	mu      sync.Mutex
	state   state
	cancel  context.CancelFunc
	done    chan struct{}
	nextRun time.Time
}

// New makes a Scheduler, fails on invalid cron expression
func New(p Params) (*Scheduler, error) {
	if p.Publisher == nil {
		return nil, errors.New("no publisher")
	}
	if p.Clock == nil {
		p.Clock = realClock{}
	}
	res := &Scheduler{publisher: p.Publisher, clock: p.Clock}

	if p.Cron != "" {
		sched, err := cron.ParseStandard(p.Cron)
		if err != nil {
			return nil, fmt.Errorf("parse cron %q: %w", p.Cron, err)
		}
		res.schedule, res.descr = sched, "cron "+p.Cron
		return res, nil
	}

	if p.Interval == 0 {
		p.Interval = 8 * time.Hour
	}
	if p.Interval < time.Second {
		return nil, fmt.Errorf("interval %v is shorter than a second", p.Interval)
	}
	res.schedule, res.descr = cron.Every(p.Interval), "every "+p.Interval.String()
	return res, nil
}

// Start runs the scheduling loop in background. Can be called once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case stateRunning:
		return errors.New("scheduler already running")
	case stateStopped:
		return errors.New("scheduler stopped")
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.state = stateRunning
	s.nextRun = s.schedule.Next(s.clock.Now())
	go s.loop(ctx, s.nextRun)

	lgr.Printf("[INFO] scheduler started, %s, next run at %s", s.descr, s.nextRun.Format(time.RFC3339))
	return nil
}

// Stop cancels all future runs. It doesn't wait for a publish in progress.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state != stateRunning {
		s.state = stateStopped
		s.mu.Unlock()
		return
	}
	s.state = stateStopped
	s.cancel()
	done := s.done
	s.nextRun = time.Time{}
	s.mu.Unlock()

	<-done
	lgr.Printf("[INFO] scheduler stopped")
}

// NextRun returns the time of the next run, zero if not running
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun
}

func (s *Scheduler) loop(ctx context.Context, next time.Time) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(s.clock.Now())):
		}

		// publish may block for a long time and must not hold up shutdown
		go s.run(context.WithoutCancel(ctx))

		// skip runs missed while the process was suspended
		if now := s.clock.Now(); now.After(next) {
			next = now
		}
		next = s.schedule.Next(next)

		s.mu.Lock()
		if s.state == stateRunning {
			s.nextRun = next
		}
		s.mu.Unlock()
		lgr.Printf("[DEBUG] next run at %s", next.Format(time.RFC3339))
	}
}

func (s *Scheduler) run(ctx context.Context) {
	res := s.publisher.Publish(ctx)
	lgr.Printf("[DEBUG] scheduled publish finished, status %s", res.Status)
}
