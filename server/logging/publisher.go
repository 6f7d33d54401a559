// Package logging implements the event router backing the server's
// CrashReporter & structured-log component: simulation code publishes
// typed Events without blocking, and a background Router fans them out to
// pluggable Sinks (console, in-memory ring buffer, JSON file).
package logging

import (
	"context"
	"time"
)

// EventType is a namespaced identifier for a telemetry event.
type EventType string

// Severity expresses the importance of an event.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// Category groups events by subsystem for filtering and routing.
type Category string

const (
	CategoryCombat     Category = "combat"
	CategoryEconomy    Category = "economy"
	CategoryLifecycle  Category = "lifecycle"
	CategoryNetwork    Category = "network"
	CategorySimulation Category = "simulation"
	CategoryAI         Category = "ai"
)

// EntityKind differentiates actors referenced by an event.
type EntityKind string

const (
	EntityKindPlayer     EntityKind = "player"
	EntityKindNPC        EntityKind = "npc"
	EntityKindProjectile EntityKind = "projectile"
	EntityKindCargoBox   EntityKind = "cargo_box"
	EntityKindMap        EntityKind = "map"
)

// EntityRef identifies an actor involved in an event.
type EntityRef struct {
	ID   string
	Kind EntityKind
}

// Event describes one semantic occurrence inside the simulation.
type Event struct {
	Type      EventType
	Tick      uint64
	Time      time.Time
	Actor     EntityRef
	Targets   []EntityRef
	Severity  Severity
	Category  Category
	Payload   any
	Extra     map[string]any
	MapID     string
	CommandID string
}

// Publisher emits telemetry events without blocking the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher drops every event; it is the zero-config default.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) {}

// WithFields returns a Publisher that stamps every event with static
// metadata (e.g. mapId) before forwarding to base.
func WithFields(base Publisher, fields map[string]any) Publisher {
	if base == nil {
		return NopPublisher{}
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return &fieldsPublisher{base: base, fields: copied}
}

type fieldsPublisher struct {
	base   Publisher
	fields map[string]any
}

func (p *fieldsPublisher) Publish(ctx context.Context, event Event) {
	if len(p.fields) > 0 {
		if event.Extra == nil {
			event.Extra = make(map[string]any, len(p.fields))
		}
		for k, v := range p.fields {
			if _, exists := event.Extra[k]; !exists {
				event.Extra[k] = v
			}
		}
	}
	p.base.Publish(ctx, event)
}
