// Package reward implements RewardGrant: idempotent currency and item
// payout for an NPC kill, keyed by killOpId so client retries and
// reconnects never double-pay. The idempotency-ring-plus-audit-event
// shape is grounded on the teacher's equip/unequip idempotency guards in
// hub.go, which record an operation id before mutating state and emit a
// rejection event on replay.
package reward

import (
	"context"
	"math"
	"math/rand"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/state"
	"skyfleet/server/logging"
	"skyfleet/server/logging/economy"
)

// Grant is the outcome of a successful, non-suppressed reward.
type Grant struct {
	Credits    int64
	Experience int64
	Honor      int64
	Cosmos     int64
	DroppedItemID string // empty if the single-roll drop missed
}

// Grantor applies RewardGrant against a player for one NPC kill.
type Grantor struct {
	store *state.Store
	pub   logging.Publisher
	rng   *rand.Rand

	// OnGrant, if set, is called once per non-suppressed, successful
	// grant — after inventory mutation, before Apply returns. Left nil
	// by default; the sim package wires it to a telemetry counter.
	OnGrant func()
}

// NewGrantor constructs a Grantor. rng may be nil, in which case the
// package-level math/rand source is used.
func NewGrantor(store *state.Store, pub logging.Publisher, rng *rand.Rand) *Grantor {
	return &Grantor{store: store, pub: pub, rng: rng}
}

func (g *Grantor) roll() float64 {
	if g.rng != nil {
		return g.rng.Float64()
	}
	return rand.Float64()
}

func (g *Grantor) shuffle(n int, swap func(i, j int)) {
	if g.rng != nil {
		g.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// Apply grants killOpId's reward to playerID, suppressing replays. tick
// and mapID are carried through only for the emitted events.
func (g *Grantor) Apply(ctx context.Context, tick uint64, mapID string, playerID string, npc config.NPCClass, killOpID string) (Grant, error) {
	player, ok := g.store.Player(playerID)
	if !ok {
		return Grant{}, apperr.ErrInternal
	}
	if player.KillOps == nil {
		player.KillOps = state.NewKillOpRing(config.KillOpRingBufferSize)
	}

	actor := logging.EntityRef{Kind: logging.EntityKindPlayer, ID: playerID}

	if player.KillOps.Contains(killOpID) {
		economy.RewardSkipped(ctx, g.pub, tick, mapID, actor, killOpID)
		return Grant{}, nil
	}

	reward := npc.Rewards
	if !financeFinite(reward) {
		return Grant{}, apperr.ErrValidationFailed
	}

	player.KillOps.Record(killOpID)

	player.Inventory.Credits = clampNonNegative(player.Inventory.Credits + reward.Credits)
	player.Inventory.Experience = clampNonNegative(player.Inventory.Experience + reward.Experience)
	player.Inventory.Honor = clampNonNegative(player.Inventory.Honor + reward.Honor)
	player.Inventory.Cosmos = clampNonNegative(player.Inventory.Cosmos + reward.Cosmos)

	grant := Grant{
		Credits:    reward.Credits,
		Experience: reward.Experience,
		Honor:      reward.Honor,
		Cosmos:     reward.Cosmos,
	}

	if itemID, ok := g.rollDrop(npc.DropTable); ok {
		player.Items = append(player.Items, state.Item{ID: itemID, Slot: state.SlotNone})
		grant.DroppedItemID = itemID
	}

	economy.RewardGranted(ctx, g.pub, tick, mapID, actor, killOpID, reward.Credits, reward.Experience, reward.Honor)

	if g.OnGrant != nil {
		g.OnGrant()
	}

	return grant, nil
}

// rollDrop performs the single-roll drop: shuffle candidates with a
// positive chance, roll r in [0,1), and walk the shuffled list's
// cumulative windows until one contains r. At most one drop results.
func (g *Grantor) rollDrop(table []config.DropEntry) (string, bool) {
	candidates := make([]config.DropEntry, 0, len(table))
	for _, entry := range table {
		if entry.DropChance > 0 {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	g.shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	r := g.roll()
	sum := 0.0
	for _, entry := range candidates {
		if r >= sum && r < sum+entry.DropChance {
			return entry.ItemID, true
		}
		sum += entry.DropChance
	}
	return "", false
}

func financeFinite(r config.Reward) bool {
	vals := []int64{r.Credits, r.Experience, r.Honor, r.Cosmos}
	for _, v := range vals {
		if v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
