// Package repository defines the persistent store contract for user
// prediction records and the completion ledger.
//
// The store is treated as a document store with last-write-wins semantics:
// read, upsert-with-patch, and find-all. It is the only durable state the
// engine owns; everything else is rebuilt from the provider on startup.
package repository

import (
	"context"

	"github.com/okian/matchday/internal/domain/model"
)

// UserPatch is a partial update to a user record. Nil fields are left
// untouched; Guesses entries are merged into the stored guess map.
type UserPatch struct {
	DisplayName *string
	ProfileURL  *string
	AvatarURL   *string
	Score       *float64
	Correct     *int
	Incorrect   *int
	Guesses     map[string]int
}

// Store provides read/write access to user records and the ledger.
type Store interface {
	// FindAllUsers returns every user record.
	FindAllUsers(ctx context.Context) ([]model.UserRecord, error)

	// FindUser returns one user record, or ErrNotFound.
	FindUser(ctx context.Context, userID string) (model.UserRecord, error)

	// UpsertUser applies patch to the user record, creating it with zero
	// defaults when absent.
	UpsertUser(ctx context.Context, userID string, patch UserPatch) error

	// CompletionLedger returns the set of match IDs already settled,
	// creating an empty ledger when none exists yet.
	CompletionLedger(ctx context.Context) ([]string, error)

	// SetCompletionLedger replaces the ledger contents.
	SetCompletionLedger(ctx context.Context, matchIDs []string) error
}

// Helpers for building patches without local temporaries.

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }
