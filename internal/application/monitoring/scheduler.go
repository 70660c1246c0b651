package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/judicial-monitor/internal/domain"
	"github.com/sirupsen/logrus"
)

type cycleRunner interface {
	RunCycle(ctx context.Context) CycleReport
}

// Scheduler drives RunCycle with fixed-delay semantics: the first run fires
// after the initial delay and each following run is armed only once the
// previous one has completed, so runs never overlap.
type Scheduler struct {
	runner       cycleRunner
	interval     time.Duration
	initialDelay time.Duration
	log          logrus.FieldLogger

	runMu sync.Mutex // held for the duration of a cycle

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewScheduler(runner cycleRunner, interval, initialDelay time.Duration, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		runner:       runner,
		interval:     interval,
		initialDelay: initialDelay,
		log:          log,
	}
}

// Start launches the scheduling loop. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.done)
	s.log.WithFields(logrus.Fields{
		"interval":      s.interval.String(),
		"initial_delay": s.initialDelay.String(),
	}).Info("monitoring: scheduler started")
}

// Stop cancels the loop and waits for an in-flight cycle to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
	s.log.Info("monitoring: scheduler stopped")
}

// TriggerNow runs a cycle immediately on the caller's goroutine. It fails with
// domain.ErrBusy while another cycle is in flight.
func (s *Scheduler) TriggerNow(ctx context.Context) (CycleReport, error) {
	if !s.runMu.TryLock() {
		return CycleReport{}, domain.ErrBusy
	}
	defer s.runMu.Unlock()
	return s.runner.RunCycle(ctx), nil
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(s.initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.runScheduled(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *Scheduler) runScheduled(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	// A started cycle runs to completion even when the scheduler is stopping.
	report := s.runner.RunCycle(context.WithoutCancel(ctx))
	s.log.WithField("report", report.String()).Debug("monitoring: scheduled run complete")
}
