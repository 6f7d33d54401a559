package session

import (
	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/net/router"
)

// RegisterHandlers binds every inbound message type mgr understands to
// r. join is handled separately by the transport (it establishes the
// Session before any frame can be routed), so it is not registered here.
func RegisterHandlers(r *router.Router, mgr *Manager) {
	r.Register([]string{proto.TypePositionUpdate}, PositionHandler{Manager: mgr})
	r.Register([]string{proto.TypeHeartbeat}, HeartbeatHandler{Manager: mgr})
	r.Register([]string{proto.TypeStartCombat, proto.TypeStopCombat}, CombatHandler{Manager: mgr})
	r.Register([]string{proto.TypeCargoBoxCollect}, CargoHandler{Manager: mgr})
	r.Register([]string{proto.TypeSkillUpgradeRequest}, SkillUpgradeHandler{Manager: mgr})
	r.Register([]string{proto.TypeChatMessage}, ChatHandler{Manager: mgr})
	r.Register([]string{proto.TypeSaveRequest}, SaveHandler{Manager: mgr})
}
