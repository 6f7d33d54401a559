// Package cargo implements the CargoBoxManager: spawning lootable debris
// on NPC death and the channelled collection flow a player completes to
// claim it. The anchor-drift channel pattern is grounded on the teacher's
// channelled-cast ability state machine, generalized from a fixed cast
// point to a per-attempt anchor that StartCollect records when the attempt
// begins; Tick does not record or reset it.
package cargo

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/state"
)

// Manager owns cargo box lifecycle for one map.
type Manager struct {
	store *state.Store
	rng   *rand.Rand
}

// NewManager constructs a Manager. rng may be nil, in which case the
// package-level math/rand source is used.
func NewManager(store *state.Store, rng *rand.Rand) *Manager {
	return &Manager{store: store, rng: rng}
}

func (m *Manager) float64() float64 {
	if m.rng != nil {
		return m.rng.Float64()
	}
	return rand.Float64()
}

func (m *Manager) intn(n int) int {
	if n <= 0 {
		return 0
	}
	if m.rng != nil {
		return m.rng.Intn(n)
	}
	return rand.Intn(n)
}

// SpawnCargoBox rolls whether killing an NPC of class npc drops a box at
// pos, and if so stores it with an exclusivity window favoring killerID.
func (m *Manager) SpawnCargoBox(pos state.Vec2, npc config.NPCClass, killerID string, now time.Time) (*state.CargoBox, bool) {
	if npc.CargoDropChance <= 0 || len(npc.CargoResources) == 0 {
		return nil, false
	}
	if m.float64() >= npc.CargoDropChance {
		return nil, false
	}

	resource := npc.CargoResources[m.intn(len(npc.CargoResources))]
	qtyMin, qtyMax := npc.CargoQuantityMin, npc.CargoQuantityMax
	if qtyMax < qtyMin {
		qtyMax = qtyMin
	}
	quantity := qtyMin
	if qtyMax > qtyMin {
		quantity += m.intn(qtyMax - qtyMin + 1)
	}

	box := &state.CargoBox{
		ID:             "box_" + strconv.FormatUint(m.store.NextID(), 10),
		Position:       pos,
		ResourceType:   resource,
		Quantity:       quantity,
		NPCType:        npc.ID,
		KillerID:       killerID,
		SpawnedAt:      now,
		ExpiresAt:      now.Add(2 * time.Minute),
		ExclusiveUntil: now.Add(15 * time.Second),
	}
	m.store.AddCargoBox(box)
	return box, true
}

// StartCollect validates a collection attempt and, on success, begins the
// channel by anchoring the player's current position.
func (m *Manager) StartCollect(player *state.Player, boxID string, now time.Time) (*state.CargoBox, error) {
	box, ok := m.store.CargoBox(boxID)
	if !ok {
		return nil, apperr.ErrBoxNotFound
	}
	if now.After(box.ExpiresAt) {
		return nil, apperr.ErrBoxExpired
	}
	if now.Before(box.ExclusiveUntil) && box.KillerID != "" && box.KillerID != player.ClientID {
		return nil, apperr.ErrBoxExclusive
	}
	if box.CollectingPlayerID != "" && box.CollectingPlayerID != player.ClientID {
		return nil, apperr.ErrBoxBusy
	}
	if distance(player.Position, box.Position) > config.CargoCollectDistance {
		return nil, apperr.ErrBoxTooFar
	}

	box.CollectingPlayerID = player.ClientID
	box.CollectAnchor = player.Position
	box.CollectStartedAt = now
	return box, nil
}

// Cancel aborts any in-progress channel on box, leaving it collectible
// again.
func (m *Manager) Cancel(box *state.CargoBox) {
	box.CollectingPlayerID = ""
	box.CollectAnchor = state.Vec2{}
	box.CollectStartedAt = time.Time{}
}

// Tick advances one in-progress channel: verifying the collecting player
// still exists, is still in range, and has not drifted past the anchor
// tolerance. It returns (true, nil) once the channel duration has
// elapsed, signalling the caller should credit the resource and remove
// the box.
func (m *Manager) Tick(box *state.CargoBox, now time.Time) (complete bool, err error) {
	if box.CollectingPlayerID == "" {
		return false, nil
	}
	player, ok := m.store.Player(box.CollectingPlayerID)
	if !ok {
		m.Cancel(box)
		return false, apperr.ErrBoxNotFound
	}
	if distance(player.Position, box.Position) > config.CargoCollectDistance {
		m.Cancel(box)
		return false, apperr.ErrBoxTooFar
	}
	if distance(player.Position, box.CollectAnchor) > config.CargoChannelDriftLimit {
		m.Cancel(box)
		return false, apperr.ErrValidationFailed
	}
	if now.Sub(box.CollectStartedAt) >= config.CargoChannelDuration {
		return true, nil
	}
	return false, nil
}

// Complete credits the collected resource to player's inventory and
// removes the box from the store.
func (m *Manager) Complete(player *state.Player, box *state.CargoBox) {
	if player.Inventory.Resources == nil {
		player.Inventory.Resources = make(map[string]int64)
	}
	player.Inventory.Resources[box.ResourceType] += int64(box.Quantity)
	m.store.RemoveCargoBox(box.ID)
}

func distance(a, b state.Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}
