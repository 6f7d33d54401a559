package proto

import "strconv"

// PlayerIdentity is the subset of a session's authoritative identity a
// handler validates an inbound claim against.
type PlayerIdentity struct {
	PlayerID string
	UserID   string
	ClientID string
}

// ValidatePlayerID reports whether received is an acceptable claim of
// identity.PlayerID: either a numeric-coercing match against PlayerID (so
// "42" and 42-as-string both pass) or an exact match against UserID.
func ValidatePlayerID(received string, identity PlayerIdentity) bool {
	if received == identity.PlayerID {
		return true
	}
	if numericEqual(received, identity.PlayerID) {
		return true
	}
	return received == identity.UserID
}

// ValidateClientID reports whether received strictly equals
// identity.ClientID.
func ValidateClientID(received string, identity PlayerIdentity) bool {
	return received == identity.ClientID
}

func numericEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	af, aerr := strconv.ParseFloat(a, 64)
	bf, berr := strconv.ParseFloat(b, 64)
	return aerr == nil && berr == nil && af == bf
}
