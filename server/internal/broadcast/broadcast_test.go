package broadcast

import (
	"errors"
	"testing"

	"skyfleet/server/internal/state"
)

type recordingSender struct {
	received [][]byte
	fail     bool
}

func (r *recordingSender) Send(data []byte) error {
	if r.fail {
		return errors.New("write failed")
	}
	r.received = append(r.received, data)
	return nil
}

func TestToMapExcludesOneSender(t *testing.T) {
	b := New()
	a, c := &recordingSender{}, &recordingSender{}
	b.Register("a", a)
	b.Register("c", c)

	b.ToMap([]byte("hello"), "a")

	if len(a.received) != 0 {
		t.Fatal("expected excluded sender to receive nothing")
	}
	if len(c.received) != 1 {
		t.Fatal("expected non-excluded sender to receive the frame")
	}
}

func TestToMapEvictsFailingSender(t *testing.T) {
	b := New()
	failing := &recordingSender{fail: true}
	b.Register("a", failing)

	b.ToMap([]byte("hello"), "")

	if _, ok := b.snapshot()["a"]; ok {
		t.Fatal("expected a failing sender to be evicted")
	}
}

func TestNearOnlySendsWithinRadius(t *testing.T) {
	store := state.NewStore()
	store.AddPlayer(&state.Player{ClientID: "near", Position: state.Vec2{X: 10, Y: 0}})
	store.AddPlayer(&state.Player{ClientID: "far", Position: state.Vec2{X: 10000, Y: 0}})

	b := New()
	near, far := &recordingSender{}, &recordingSender{}
	b.Register("near", near)
	b.Register("far", far)

	b.Near(store, state.Vec2{X: 0, Y: 0}, 100, []byte("boom"), "")

	if len(near.received) != 1 {
		t.Fatal("expected the near player to receive the frame")
	}
	if len(far.received) != 0 {
		t.Fatal("expected the far player to be skipped")
	}
}
