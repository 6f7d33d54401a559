// Package session implements the SessionManager: authentication, the
// join handshake, per-message-type rate limiting, disconnect cleanup,
// and periodic persistence for every connected player. Grounded on the
// teacher's Hub subscriber bookkeeping (hub.go: seedPlayerState, Join,
// Subscribe, Disconnect), generalized from one Hub's subscriber map to
// a Manager that can seat a player on any of the App's registered maps.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/broadcast"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/ports"
	"skyfleet/server/internal/sim"
	"skyfleet/server/internal/state"
	"skyfleet/server/internal/telemetry"
	"skyfleet/server/logging"
	"skyfleet/server/logging/lifecycle"
	loggingnetwork "skyfleet/server/logging/network"
	"skyfleet/server/stats"
)

// rateLimit is the per-message-type token bucket applied to every
// session: a burst of 5 messages, refilling at 10/s. The teacher has no
// rate limiter at all; this is pack-sourced enrichment (golang.org/x/time/rate)
// bounding how fast one connection can spend router dispatch time.
var (
	rateLimitPerSecond = rate.Limit(10)
	rateLimitBurst     = 5
)

// MapProvider resolves a map by ID; satisfied by *app.App.
type MapProvider interface {
	Map(id string) (*sim.Map, bool)
}

// Session is the live bookkeeping for one connected WebSocket: which map
// it joined, its identity, and its per-type rate limiters.
type Session struct {
	ClientID string
	UserID   string
	MapID    string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newSession(clientID, userID, mapID string) *Session {
	return &Session{ClientID: clientID, UserID: userID, MapID: mapID, limiters: make(map[string]*rate.Limiter)}
}

func (s *Session) allow(messageType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[messageType]
	if !ok {
		l = rate.NewLimiter(rateLimitPerSecond, rateLimitBurst)
		s.limiters[messageType] = l
	}
	return l.Allow()
}

// Manager owns every live Session, the shared ports, and the
// Broadcaster registrations backing outbound delivery.
type Manager struct {
	Maps        MapProvider
	PlayerStore ports.PlayerStore
	TokenVerify ports.TokenVerifier
	Publisher   logging.Publisher

	// Telemetry, when set, is incremented once per message the rate
	// limiter rejects. Left nil in tests that don't care about metrics.
	Telemetry *telemetry.Collector

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager constructs a Manager bound to maps and ports.
func NewManager(maps MapProvider, playerStore ports.PlayerStore, tokenVerify ports.TokenVerifier, pub logging.Publisher) *Manager {
	if pub == nil {
		pub = logging.NopPublisher{}
	}
	return &Manager{
		Maps:        maps,
		PlayerStore: playerStore,
		TokenVerify: tokenVerify,
		Publisher:   pub,
		sessions:    make(map[string]*Session),
	}
}

// Join authenticates msg.AuthToken, loads or creates the player's
// persistent row, seeds a live state.Player on mapID, registers sender
// for outbound delivery, and returns the Welcome frame to send back.
// Grounded on hub.go's Join + seedPlayerState + Subscribe sequence.
func (mgr *Manager) Join(ctx context.Context, mapID string, msg proto.Join, sender broadcast.Sender) (proto.Welcome, error) {
	m, ok := mgr.Maps.Map(mapID)
	if !ok {
		return proto.Welcome{}, fmt.Errorf("session: unknown map %q: %w", mapID, apperr.ErrValidationFailed)
	}
	if msg.ClientID == "" {
		return proto.Welcome{}, apperr.ErrValidationFailed
	}

	identity, err := mgr.TokenVerify.Verify(ctx, msg.AuthToken)
	if err != nil {
		return proto.Welcome{}, fmt.Errorf("session: %w", apperr.ErrAuthInvalid)
	}

	record, err := mgr.PlayerStore.Load(ctx, identity.UserID)
	if err != nil {
		return proto.Welcome{}, fmt.Errorf("session: loading player record: %w", apperr.ErrDBTransient)
	}

	shipClass := record.ShipClass
	class, ok := m.Config().ShipClasses[shipClass]
	if !ok {
		shipClass = "fighter"
		class = m.Config().ShipClasses[shipClass]
	}

	comp := stats.NewComponent(stats.ArchetypeBase(class.BaseHealth, class.BaseShield))
	comp.Resolve(m.TickCount())

	now := time.Now()
	player := &state.Player{
		ClientID:   msg.ClientID,
		UserID:     identity.UserID,
		PlayerDBID: record.PlayerDBID,
		Nickname:   msg.Nickname,
		Position:   state.Vec2{X: msg.Position.X, Y: msg.Position.Y},
		Rotation:   msg.Position.Rotation,
		ShipClass:  shipClass,
		Health:     comp.GetDerived(stats.DerivedMaxHealth),
		Shield:     comp.GetDerived(stats.DerivedMaxShield),
		Stats:      comp,
		Upgrades:   record.Stats,
		Inventory:  record.Inventory,
		Items:      record.Items,
		LastInputAt: now,
		KillOps:    state.NewKillOpRing(config.KillOpRingBufferSize),
	}
	m.Store().AddPlayer(player)
	m.Broadcast.Register(msg.ClientID, sender)

	mgr.mu.Lock()
	mgr.sessions[msg.ClientID] = newSession(msg.ClientID, identity.UserID, mapID)
	mgr.mu.Unlock()

	lifecycle.PlayerJoined(ctx, mgr.Publisher, mapID, logging.EntityRef{Kind: logging.EntityKindPlayer, ID: msg.ClientID})

	if joined, encErr := proto.EncodePlayerJoined(proto.PlayerJoined{
		ClientID: msg.ClientID,
		Nickname: msg.Nickname,
		Position: msg.Position,
	}); encErr == nil {
		m.Broadcast.ToMap(joined, msg.ClientID)
	}

	return proto.Welcome{
		ClientID:   msg.ClientID,
		PlayerID:   msg.ClientID,
		PlayerDBID: record.PlayerDBID,
		MapID:      mapID,
		InitialState: proto.InitialState{
			Position:  proto.Position{X: player.Position.X, Y: player.Position.Y, Rotation: player.Rotation},
			Health:    player.Health,
			MaxHealth: player.MaxHealth(),
			Shield:    player.Shield,
			MaxShield: player.MaxShield(),
		},
	}, nil
}

// Disconnect removes clientID's live state from its map, unregisters it
// from the Broadcaster, persists its row, and drops its Session.
func (mgr *Manager) Disconnect(ctx context.Context, clientID, reason string) {
	mgr.mu.Lock()
	sess, ok := mgr.sessions[clientID]
	delete(mgr.sessions, clientID)
	mgr.mu.Unlock()
	if !ok {
		return
	}

	m, ok := mgr.Maps.Map(sess.MapID)
	if !ok {
		return
	}
	player, ok := m.Store().Player(clientID)
	if ok {
		_ = mgr.PlayerStore.Save(ctx, playerRecord(player), "disconnect")
		m.Store().RemovePlayer(clientID)
	}
	m.Broadcast.Unregister(clientID)

	lifecycle.PlayerDisconnected(ctx, mgr.Publisher, sess.MapID, logging.EntityRef{Kind: logging.EntityKindPlayer, ID: clientID}, reason)

	if left, err := proto.EncodePlayerLeft(proto.PlayerLeft{ClientID: clientID}); err == nil {
		m.Broadcast.ToMap(left, "")
	}
}

// session looks up a live Session by client id.
func (mgr *Manager) session(clientID string) (*Session, bool) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	s, ok := mgr.sessions[clientID]
	return s, ok
}

// allow applies clientID's per-message-type rate limit, publishing a
// RateLimited telemetry event on rejection.
func (mgr *Manager) allow(ctx context.Context, clientID, messageType string) bool {
	sess, ok := mgr.session(clientID)
	if !ok {
		return false
	}
	if sess.allow(messageType) {
		return true
	}
	loggingnetwork.RateLimited(ctx, mgr.Publisher, sess.MapID, logging.EntityRef{Kind: logging.EntityKindPlayer, ID: clientID}, messageType)
	if mgr.Telemetry != nil {
		mgr.Telemetry.IncRateLimitDrops()
	}
	return false
}

// PersistAll saves every connected player's row, for the periodic
// config.PersistInterval sweep driven by the network layer.
func (mgr *Manager) PersistAll(ctx context.Context) {
	mgr.mu.Lock()
	sessions := make([]*Session, 0, len(mgr.sessions))
	for _, s := range mgr.sessions {
		sessions = append(sessions, s)
	}
	mgr.mu.Unlock()

	for _, sess := range sessions {
		m, ok := mgr.Maps.Map(sess.MapID)
		if !ok {
			continue
		}
		player, ok := m.Store().Player(sess.ClientID)
		if !ok {
			continue
		}
		_ = mgr.PlayerStore.Save(ctx, playerRecord(player), "periodic")
	}
}

// playerRecord projects a live state.Player onto its durable row shape.
func playerRecord(player *state.Player) ports.PlayerRecord {
	return ports.PlayerRecord{
		PlayerDBID: player.PlayerDBID,
		UserID:     player.UserID,
		ShipClass:  player.ShipClass,
		Stats:      player.Upgrades,
		Inventory:  player.Inventory,
		Items:      player.Items,
	}
}
