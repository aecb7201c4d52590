package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

// EventMaintainer is the slice of the event service the sweeper drives
type EventMaintainer interface {
	SweepPastEvents(ctx context.Context) (int, error)
	CleanupCancelledSignups(ctx context.Context) (int, error)
}

// EventSweeper runs scheduled event maintenance
// - Marks scheduled events as completed once their end time passes
// - Withdraws signups still active on events cancelled past the grace period
type EventSweeper struct {
	events   EventMaintainer
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewEventSweeper creates a new event sweeper job
func NewEventSweeper(events EventMaintainer, interval time.Duration) *EventSweeper {
	if interval == 0 {
		interval = 1 * time.Hour // Default sweep every hour
	}
	return &EventSweeper{
		events:   events,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the event sweeper job
func (s *EventSweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
	log.Printf("Event sweeper started (interval: %v)", s.interval)
}

// Stop gracefully stops the event sweeper job
func (s *EventSweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	log.Println("Event sweeper stopped")
}

// run is the main loop
func (s *EventSweeper) run() {
	defer s.wg.Done()

	// Run immediately on start (but with a short delay to let services initialize)
	time.Sleep(5 * time.Second)
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep runs one maintenance pass with a bounded context
func (s *EventSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		log.Printf("Error sweeping events: %v", err)
	}
}

// RunOnce runs the sweep once (for testing or manual trigger)
func (s *EventSweeper) RunOnce(ctx context.Context) error {
	completed, err := s.events.SweepPastEvents(ctx)
	if err != nil {
		return err
	}
	if completed > 0 {
		log.Printf("Marked %d past events completed", completed)
	}

	cleaned, err := s.events.CleanupCancelledSignups(ctx)
	if err != nil {
		return err
	}
	if cleaned > 0 {
		log.Printf("Withdrew signups from %d cancelled events", cleaned)
	}

	return nil
}

// IsRunning returns whether the sweeper is running
func (s *EventSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
