package app

import (
	"context"
	"testing"
	"time"

	"skyfleet/server/internal/config"
)

func TestAddMapRejectsDuplicateID(t *testing.T) {
	a := New(nil)
	if _, err := a.AddMap(MapSpec{ID: "map-1", Config: config.Default()}); err != nil {
		t.Fatalf("unexpected error registering map-1: %v", err)
	}
	if _, err := a.AddMap(MapSpec{ID: "map-1", Config: config.Default()}); err == nil {
		t.Fatal("expected an error registering a duplicate map id")
	}
}

func TestAddMapRejectsEmptyID(t *testing.T) {
	a := New(nil)
	if _, err := a.AddMap(MapSpec{Config: config.Default()}); err == nil {
		t.Fatal("expected an error registering a map with an empty id")
	}
}

func TestRunStartsEveryRegisteredMap(t *testing.T) {
	a := New(nil)
	if _, err := a.AddMap(MapSpec{ID: "map-1", Config: config.Default()}); err != nil {
		t.Fatalf("unexpected error registering map-1: %v", err)
	}
	if _, err := a.AddMap(MapSpec{ID: "map-2", Config: config.Default()}); err != nil {
		t.Fatalf("unexpected error registering map-2: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("unexpected error from Run: %v", err)
	}

	for _, id := range []string{"map-1", "map-2"} {
		m, ok := a.Map(id)
		if !ok {
			t.Fatalf("expected map %q to be registered", id)
		}
		if m.TickCount() == 0 {
			t.Fatalf("expected map %q to have advanced at least one tick", id)
		}
	}
}

func TestRecoverPanicTurnsPanicIntoError(t *testing.T) {
	err := recoverPanic("map-1", func() { panic("boom") })
	if err == nil {
		t.Fatal("expected a panic to be turned into an error")
	}
}

func TestRecoverPanicPassesThroughCleanReturn(t *testing.T) {
	if err := recoverPanic("map-1", func() {}); err != nil {
		t.Fatalf("unexpected error from a non-panicking call: %v", err)
	}
}
