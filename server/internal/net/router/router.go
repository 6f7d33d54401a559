// Package router implements the MessageRouter: a type→handler map that
// validates inbound frame size and the `type` discriminator before
// dispatching the raw payload to the handler that declares it can handle
// that type. Grounded on the teacher's ws.Handler type-switch dispatch
// (internal/net/ws/handler.go), generalized from a single hard-coded
// switch statement into a registrable table so new message types don't
// require editing the dispatch loop itself.
package router

import (
	"context"
	"fmt"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/net/proto"
)

// Handler processes one decoded inbound message type for one session.
type Handler interface {
	// CanHandle reports whether this handler processes messageType.
	CanHandle(messageType string) bool
	// Handle processes the raw payload. sessionID identifies the
	// connection the frame arrived on.
	Handle(ctx context.Context, sessionID string, payload []byte) error
}

// Router dispatches inbound frames to registered handlers by type.
type Router struct {
	handlers map[string]Handler
}

// New constructs an empty Router.
func New() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register binds handler to every type in types for which
// handler.CanHandle reports true; it panics on a programmer error
// (registering a type the handler itself disclaims, or a duplicate).
func (r *Router) Register(types []string, handler Handler) {
	for _, t := range types {
		if !handler.CanHandle(t) {
			panic(fmt.Sprintf("router: handler does not claim to handle %q", t))
		}
		if _, exists := r.handlers[t]; exists {
			panic(fmt.Sprintf("router: duplicate handler registration for %q", t))
		}
		r.handlers[t] = handler
	}
}

// Dispatch validates and routes one raw inbound frame.
func (r *Router) Dispatch(ctx context.Context, sessionID string, payload []byte) error {
	if len(payload) > proto.MaxFrameBytes {
		return apperr.ErrValidationFailed
	}

	messageType, err := proto.PeekType(payload)
	if err != nil || messageType == "" {
		return apperr.ErrValidationFailed
	}

	handler, ok := r.handlers[messageType]
	if !ok {
		return apperr.ErrValidationFailed
	}

	return handler.Handle(ctx, sessionID, payload)
}
