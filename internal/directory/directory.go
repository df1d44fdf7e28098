// Package directory defines the capability surface of the user directory
// that userctl commands operate against. Concrete backends live in the
// filedir and mongodir subpackages.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/jtessler/userctl/internal/identifier"
)

var (
	// ErrNotFound indicates no record matches the identifier or user id.
	ErrNotFound = errors.New("user not found")

	// ErrExists indicates a create collides with an existing record's
	// email or phone number.
	ErrExists = errors.New("user already exists")

	// ErrInvalidField indicates a create or update carries a field value
	// the directory rejects.
	ErrInvalidField = errors.New("invalid field value")
)

// UserRecord is one identity record as the directory stores it.
// The tool only reads records and writes the fields it explicitly sets.
type UserRecord struct {
	// ID is the directory-native opaque user id.
	ID string `json:"id"`

	// Email is the primary email address (optional).
	Email string `json:"email,omitempty"`

	// PhoneNumber is the primary phone number (optional).
	PhoneNumber string `json:"phone_number,omitempty"`

	// DisplayName is the human-readable name (optional).
	DisplayName string `json:"display_name,omitempty"`

	// Verified reports whether the email or phone has been verified.
	Verified bool `json:"verified"`

	// Disabled reports whether sign-in is blocked for this record.
	Disabled bool `json:"disabled"`

	// Claims holds custom claims attached to issued tokens (optional).
	Claims map[string]any `json:"claims,omitempty"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`

	// LastSignIn is the most recent sign-in time, if any.
	LastSignIn *time.Time `json:"last_sign_in,omitempty"`

	// TokensValidAfter invalidates session tokens issued before it.
	TokensValidAfter *time.Time `json:"tokens_valid_after,omitempty"`
}

// Clone returns a deep copy of the record so callers cannot alias the
// store's claims map.
func (r UserRecord) Clone() UserRecord {
	out := r
	if r.Claims != nil {
		out.Claims = make(map[string]any, len(r.Claims))
		for k, v := range r.Claims {
			out.Claims[k] = v
		}
	}
	return out
}

// CreateFields carries the settable fields for a new record.
type CreateFields struct {
	Email       string
	PhoneNumber string
	DisplayName string
	Verified    bool
	Claims      map[string]any
}

// UpdateFields carries a partial update. Nil pointers mean "leave the
// field unchanged"; a non-nil pointer to the zero value clears it.
type UpdateFields struct {
	Email       *string
	PhoneNumber *string
	DisplayName *string
	Verified    *bool
	Disabled    *bool

	// Claims, when non-nil, replaces the record's claims wholesale.
	Claims map[string]any
}

// Empty reports whether the update changes nothing.
func (f UpdateFields) Empty() bool {
	return f.Email == nil && f.PhoneNumber == nil && f.DisplayName == nil &&
		f.Verified == nil && f.Disabled == nil && f.Claims == nil
}

// Service is the capability interface the batch runner and commands consume.
// The directory behind it is the final authority on record existence; all
// methods return ErrNotFound (possibly wrapped) for unknown users.
type Service interface {
	// UserIDByIdentifier resolves an operator-supplied identifier to the
	// directory-native user id.
	UserIDByIdentifier(ctx context.Context, ident identifier.Identifier) (string, error)

	// UserByIdentifier resolves an identifier and fetches the full record.
	UserByIdentifier(ctx context.Context, ident identifier.Identifier) (*UserRecord, error)

	// SetDisabled sets the disabled flag and returns the updated record.
	// Setting an already-set flag is not an error.
	SetDisabled(ctx context.Context, userID string, disabled bool) (*UserRecord, error)

	// DeleteUser permanently removes the record.
	DeleteUser(ctx context.Context, userID string) error

	// RevokeSessions invalidates all session tokens issued so far.
	RevokeSessions(ctx context.Context, userID string) error

	// UpdateUser applies a partial update and returns the updated record.
	UpdateUser(ctx context.Context, userID string, fields UpdateFields) (*UserRecord, error)

	// CreateUser creates a record and returns it with its assigned id.
	CreateUser(ctx context.Context, fields CreateFields) (*UserRecord, error)

	// ListUsers returns all records, ordered by creation time.
	ListUsers(ctx context.Context) ([]UserRecord, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
