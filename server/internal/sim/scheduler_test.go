package sim

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"skyfleet/server/internal/config"
	"skyfleet/server/logging"
	loggingsimulation "skyfleet/server/logging/simulation"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []logging.Event
}

func (r *recordingPublisher) Publish(_ context.Context, event logging.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingPublisher) count(t logging.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestRunLoopPublishesStartAndStopEvents(t *testing.T) {
	pub := &recordingPublisher{}
	m := NewMap("map-1", config.Default(), pub, nil, rand.New(rand.NewSource(3)))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	m.RunLoop(ctx)

	if pub.count(loggingsimulation.EventMapStarted) != 1 {
		t.Fatal("expected exactly one map_started event")
	}
	if pub.count(loggingsimulation.EventMapStopped) != 1 {
		t.Fatal("expected exactly one map_stopped event")
	}
	if m.TickCount() == 0 {
		t.Fatal("expected the scheduler to have advanced at least one tick")
	}
}
