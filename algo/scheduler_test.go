package algo

import (
	"context"
	"testing"
	"time"
)

func TestManualSchedulerCancel(t *testing.T) {
	var s ManualScheduler
	fired := 0
	cancel := s.RequestTick(func(float64) { fired++ })
	s.RequestTick(func(float64) { fired++ })
	cancel()

	if s.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending())
	}
	if n := s.Fire(16); n != 1 || fired != 1 {
		t.Errorf("Fire = %d fired = %d, want 1/1", n, fired)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending after Fire = %d, want 0", s.Pending())
	}
}

func TestManualSchedulerRearmRunsNextFire(t *testing.T) {
	var s ManualScheduler
	var stamps []float64
	var cb func(float64)
	cb = func(ts float64) {
		stamps = append(stamps, ts)
		if len(stamps) < 3 {
			s.RequestTick(cb)
		}
	}
	s.RequestTick(cb)
	for ts := 1.0; s.Pending() > 0; ts++ {
		s.Fire(ts)
	}
	if len(stamps) != 3 || stamps[2] != 3 {
		t.Errorf("stamps = %v, want [1 2 3]", stamps)
	}
}

func TestFrameLoopRunsSimulationToCompletion(t *testing.T) {
	loop := NewFrameLoop(time.Millisecond)
	sim := NewRouteSimulator(Options{Speed: 1, Clock: loop, Scheduler: loop})

	done := make(chan struct{})
	sim.Subscribe(func(f Frame) {
		if f.State == StateCompleted {
			close(done)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	commands := make(chan func(), 1)
	commands <- func() {
		if err := sim.Start(straight100); err != nil {
			t.Errorf("Start: %v", err)
		}
	}
	go loop.Run(ctx, commands)

	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("simulation did not complete")
	}
}
