package filedir

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	var (
		seq  int
		tick = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	)
	return Open(filepath.Join(t.TempDir(), "users.json"),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("uid-%04d", seq)
		}),
		WithClock(func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		}),
	)
}

func mustCreate(t *testing.T, s *Store, fields directory.CreateFields) *directory.UserRecord {
	t.Helper()
	rec, err := s.CreateUser(context.Background(), fields)
	require.NoError(t, err)
	return rec
}

func TestCreateThenGet_RoundTripsSettableFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, s, directory.CreateFields{
		Email:       "alice@example.com",
		PhoneNumber: "555-123-4567",
		DisplayName: "Alice Liddell",
		Verified:    true,
		Claims:      map[string]any{"role": "admin"},
	})
	require.NotEmpty(t, created.ID)

	got, err := s.UserByIdentifier(ctx, identifier.Identifier{Raw: created.ID, Kind: identifier.KindOpaque})
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "555-123-4567", got.PhoneNumber)
	assert.Equal(t, "Alice Liddell", got.DisplayName)
	assert.True(t, got.Verified)
	assert.False(t, got.Disabled)
	assert.Equal(t, map[string]any{"role": "admin"}, got.Claims)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestResolution_ByEachKind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := mustCreate(t, s, directory.CreateFields{
		Email:       "bob@example.com",
		PhoneNumber: "(555) 987-6543",
		DisplayName: "Bob",
	})

	tests := []struct {
		name  string
		ident identifier.Identifier
	}{
		{"by email", identifier.Identifier{Raw: "bob@example.com", Kind: identifier.KindEmail}},
		{"by phone", identifier.Identifier{Raw: "(555) 987-6543", Kind: identifier.KindPhone}},
		{"by opaque id", identifier.Identifier{Raw: rec.ID, Kind: identifier.KindOpaque}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := s.UserIDByIdentifier(ctx, tt.ident)
			require.NoError(t, err)
			assert.Equal(t, rec.ID, id)
		})
	}
}

func TestResolution_UnknownIdentifier(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UserIDByIdentifier(context.Background(),
		identifier.Identifier{Raw: "nobody@example.com", Kind: identifier.KindEmail})
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestSetDisabled_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := mustCreate(t, s, directory.CreateFields{Email: "carol@example.com"})

	first, err := s.SetDisabled(ctx, rec.ID, true)
	require.NoError(t, err)
	assert.True(t, first.Disabled)

	// Second disable must succeed and leave the flag set.
	second, err := s.SetDisabled(ctx, rec.ID, true)
	require.NoError(t, err)
	assert.True(t, second.Disabled)

	enabled, err := s.SetDisabled(ctx, rec.ID, false)
	require.NoError(t, err)
	assert.False(t, enabled.Disabled)
}

func TestDeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := mustCreate(t, s, directory.CreateFields{Email: "dave@example.com"})

	require.NoError(t, s.DeleteUser(ctx, rec.ID))

	_, err := s.UserByIdentifier(ctx, identifier.Identifier{Raw: rec.ID, Kind: identifier.KindOpaque})
	assert.ErrorIs(t, err, directory.ErrNotFound)

	assert.ErrorIs(t, s.DeleteUser(ctx, rec.ID), directory.ErrNotFound)
}

func TestRevokeSessions_BumpsWatermark(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := mustCreate(t, s, directory.CreateFields{Email: "erin@example.com"})
	require.Nil(t, rec.TokensValidAfter)

	require.NoError(t, s.RevokeSessions(ctx, rec.ID))

	got, err := s.UserByIdentifier(ctx, identifier.Identifier{Raw: rec.ID, Kind: identifier.KindOpaque})
	require.NoError(t, err)
	require.NotNil(t, got.TokensValidAfter)
	first := *got.TokensValidAfter

	require.NoError(t, s.RevokeSessions(ctx, rec.ID))
	got, err = s.UserByIdentifier(ctx, identifier.Identifier{Raw: rec.ID, Kind: identifier.KindOpaque})
	require.NoError(t, err)
	assert.True(t, got.TokensValidAfter.After(first), "second revoke should move the watermark forward")
}

func TestUpdateUser_PartialFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := mustCreate(t, s, directory.CreateFields{
		Email:       "frank@example.com",
		DisplayName: "Frank",
	})

	newName := "Frank N. Stein"
	verified := true
	got, err := s.UpdateUser(ctx, rec.ID, directory.UpdateFields{
		DisplayName: &newName,
		Verified:    &verified,
	})
	require.NoError(t, err)

	assert.Equal(t, "Frank N. Stein", got.DisplayName)
	assert.True(t, got.Verified)
	// Untouched fields survive.
	assert.Equal(t, "frank@example.com", got.Email)
}

func TestUpdateUser_RejectsMalformedEmail(t *testing.T) {
	s := newTestStore(t)
	rec := mustCreate(t, s, directory.CreateFields{Email: "gina@example.com"})

	bad := "not-an-email"
	_, err := s.UpdateUser(context.Background(), rec.ID, directory.UpdateFields{Email: &bad})
	assert.ErrorIs(t, err, directory.ErrInvalidField)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, directory.CreateFields{Email: "dup@example.com"})

	_, err := s.CreateUser(context.Background(), directory.CreateFields{Email: "dup@example.com"})
	assert.ErrorIs(t, err, directory.ErrExists)
}

func TestCreateUser_RequiresAField(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser(context.Background(), directory.CreateFields{})
	assert.ErrorIs(t, err, directory.ErrInvalidField)
}

func TestListUsers_OldestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 3 {
		mustCreate(t, s, directory.CreateFields{Email: fmt.Sprintf("user%d@example.com", i)})
	}

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i := range 2 {
		assert.True(t, users[i].CreatedAt.Before(users[i+1].CreatedAt))
	}
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	first := Open(path)
	rec, err := first.CreateUser(ctx, directory.CreateFields{Email: "holly@example.com"})
	require.NoError(t, err)

	second := Open(path)
	got, err := second.UserByIdentifier(ctx, identifier.Identifier{Raw: rec.ID, Kind: identifier.KindOpaque})
	require.NoError(t, err)
	assert.Equal(t, "holly@example.com", got.Email)
}
