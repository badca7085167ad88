package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/matchday/internal/domain/model"
)

// MemoryStore implements Store in process memory. It backs tests and
// single-node deployments that accept losing history on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]model.UserRecord
	ledger []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]model.UserRecord)}
}

// FindAllUsers returns every user record, ordered by user ID for
// deterministic iteration.
func (s *MemoryStore) FindAllUsers(ctx context.Context) ([]model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.UserRecord, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, copyRecord(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// FindUser returns one user record, or ErrNotFound.
func (s *MemoryStore) FindUser(ctx context.Context, userID string) (model.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return model.UserRecord{}, ErrNotFound
	}
	return copyRecord(u), nil
}

// UpsertUser applies patch, creating the record when absent.
func (s *MemoryStore) UpsertUser(ctx context.Context, userID string, patch UserPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		u = model.UserRecord{ID: userID, Guesses: make(map[string]int)}
	} else {
		u = copyRecord(u)
	}

	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.ProfileURL != nil {
		u.ProfileURL = *patch.ProfileURL
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	if patch.Score != nil {
		u.Score = *patch.Score
	}
	if patch.Correct != nil {
		u.Correct = *patch.Correct
	}
	if patch.Incorrect != nil {
		u.Incorrect = *patch.Incorrect
	}
	for matchID, guess := range patch.Guesses {
		u.Guesses[matchID] = guess
	}

	s.users[userID] = u
	return nil
}

// CompletionLedger returns the settled match IDs, creating an empty ledger
// on first access.
func (s *MemoryStore) CompletionLedger(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ledger == nil {
		s.ledger = []string{}
	}
	out := make([]string, len(s.ledger))
	copy(out, s.ledger)
	return out, nil
}

// SetCompletionLedger replaces the ledger contents.
func (s *MemoryStore) SetCompletionLedger(ctx context.Context, matchIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = make([]string, len(matchIDs))
	copy(s.ledger, matchIDs)
	return nil
}

func copyRecord(u model.UserRecord) model.UserRecord {
	guesses := make(map[string]int, len(u.Guesses))
	for k, v := range u.Guesses {
		guesses[k] = v
	}
	u.Guesses = guesses
	return u
}
