// Package memory implements the zero-config default PlayerStore and
// TokenVerifier: an in-process map guarded by a mutex, standing in for a
// real database and identity provider. Grounded on the teacher's
// in-memory persistence stub used by its own test harness
// (internal/state store fixtures), generalized into a reusable default
// rather than a test-only helper.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"skyfleet/server/internal/apperr"
	"skyfleet/server/internal/ports"
)

// PlayerStore is an in-memory, process-local PlayerStore. Rows are lost
// on restart; it exists so the server is runnable without a database.
type PlayerStore struct {
	mu      sync.Mutex
	records map[string]ports.PlayerRecord
	honor   map[string][]ports.HonorSnapshot
}

// NewPlayerStore constructs an empty in-memory PlayerStore.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		records: make(map[string]ports.PlayerRecord),
		honor:   make(map[string][]ports.HonorSnapshot),
	}
}

// Load returns userID's row, creating a fresh one with default ship
// class "fighter" the first time it is requested.
func (s *PlayerStore) Load(_ context.Context, userID string) (ports.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.records[userID]; ok {
		return record, nil
	}
	record := ports.PlayerRecord{
		PlayerDBID: uuid.NewString(),
		UserID:     userID,
		ShipClass:  "fighter",
	}
	s.records[userID] = record
	return record, nil
}

// Save overwrites userID's stored row. reason is accepted for parity
// with a real store's audit log but is not retained.
func (s *PlayerStore) Save(_ context.Context, record ports.PlayerRecord, _ ports.SaveReason) error {
	if record.UserID == "" {
		return apperr.ErrValidationFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.UserID] = record
	return nil
}

// SaveHonorSnapshot appends a dated honor sample for userID.
func (s *PlayerStore) SaveHonorSnapshot(_ context.Context, userID string, honor int64, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.honor[userID] = append(s.honor[userID], ports.HonorSnapshot{Honor: honor, Source: source, RecordedAt: time.Now()})
	return nil
}

// RecentHonorAverage averages snapshots recorded within the last `days`
// days, returning 0 when there are none.
func (s *PlayerStore) RecentHonorAverage(_ context.Context, userID string, days int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	var sum float64
	var count int
	for _, snap := range s.honor[userID] {
		if snap.RecordedAt.Before(cutoff) {
			continue
		}
		sum += float64(snap.Honor)
		count++
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

// TokenVerifier is an in-memory TokenVerifier: any non-empty token is
// accepted and treated as its own userID, letting the server run without
// a real identity provider wired in.
type TokenVerifier struct{}

// NewTokenVerifier constructs the pass-through in-memory verifier.
func NewTokenVerifier() TokenVerifier { return TokenVerifier{} }

// Verify accepts any non-empty token, using it directly as the userID.
func (TokenVerifier) Verify(_ context.Context, token string) (ports.VerifiedIdentity, error) {
	if token == "" {
		return ports.VerifiedIdentity{}, apperr.ErrAuthInvalid
	}
	return ports.VerifiedIdentity{UserID: token}, nil
}
