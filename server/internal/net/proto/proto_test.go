package proto

import "testing"

func TestPeekTypeReadsDiscriminatorOnly(t *testing.T) {
	typ, err := PeekType([]byte(`{"type":"join","authToken":"abc"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != TypeJoin {
		t.Fatalf("expected %q, got %q", TypeJoin, typ)
	}
}

func TestPeekTypeRejectsMalformedJSON(t *testing.T) {
	if _, err := PeekType([]byte(`{not json`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestValidatePlayerIDAcceptsNumericCoercion(t *testing.T) {
	identity := PlayerIdentity{PlayerID: "42", UserID: "user-abc", ClientID: "client-1"}
	if !ValidatePlayerID("42", identity) {
		t.Fatal("expected exact string match to validate")
	}
	if !ValidatePlayerID("42.0", identity) {
		t.Fatal("expected numeric-coercing match to validate")
	}
	if !ValidatePlayerID("user-abc", identity) {
		t.Fatal("expected userId match to validate")
	}
	if ValidatePlayerID("wrong", identity) {
		t.Fatal("expected mismatched id to be rejected")
	}
}

func TestValidateClientIDRequiresStrictEquality(t *testing.T) {
	identity := PlayerIdentity{ClientID: "client-1"}
	if !ValidateClientID("client-1", identity) {
		t.Fatal("expected exact clientId match to validate")
	}
	if ValidateClientID("client-01", identity) {
		t.Fatal("expected non-exact clientId to be rejected")
	}
}

func TestEncodeWelcomeSetsType(t *testing.T) {
	data, err := EncodeWelcome(Welcome{ClientID: "c1", PlayerID: "p1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	typ, err := PeekType(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != TypeWelcome {
		t.Fatalf("expected type %q, got %q", TypeWelcome, typ)
	}
}

func TestRemotePlayerEntryPreservesFieldOrder(t *testing.T) {
	entry := NewRemotePlayerEntry("c1", 1, 2, 3, 4, 5, 6, "nick", "captain", 80, 100, 30, 40, 3, "skin1")
	if entry[0] != "c1" || entry[6] != uint64(6) || entry[7] != "nick" {
		t.Fatalf("unexpected entry layout: %+v", entry)
	}
}
