// Package filedir implements the directory service as a JSON file on disk.
// It is the default backend for single-operator use and doubles as the
// test double for command-level tests.
package filedir

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
)

// currentVersion is the schema version of the store file.
const currentVersion = 1

// fileDoc is the on-disk shape of the store.
type fileDoc struct {
	// Version is the schema version.
	Version int `json:"version"`

	// Users is the list of records.
	Users []directory.UserRecord `json:"users"`
}

// Store is a file-backed directory service. An in-process mutex serializes
// goroutines within one invocation; an OS advisory lock serializes
// concurrent userctl processes sharing the same file.
type Store struct {
	mu    sync.Mutex
	path  string
	flock *flock.Flock
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source (used by tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides new-record id generation (used by tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open returns a Store over the given file path. The file is created lazily
// on first write; a missing file reads as an empty directory.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:  path,
		flock: flock.New(path + ".lock"),
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserIDByIdentifier resolves an identifier to the stored record's id.
func (s *Store) UserIDByIdentifier(ctx context.Context, ident identifier.Identifier) (string, error) {
	rec, err := s.UserByIdentifier(ctx, ident)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// UserByIdentifier resolves an identifier and returns the full record.
func (s *Store) UserByIdentifier(_ context.Context, ident identifier.Identifier) (*directory.UserRecord, error) {
	var rec directory.UserRecord
	err := s.read(func(doc *fileDoc) error {
		i := findByIdentifier(doc, ident)
		if i < 0 {
			return fmt.Errorf("%w: %s %q", directory.ErrNotFound, ident.Kind, ident.Raw)
		}
		rec = doc.Users[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetDisabled sets the disabled flag. Setting an already-set flag succeeds
// without change.
func (s *Store) SetDisabled(_ context.Context, userID string, disabled bool) (*directory.UserRecord, error) {
	return s.mutateUser(userID, func(rec *directory.UserRecord) error {
		rec.Disabled = disabled
		return nil
	})
}

// DeleteUser permanently removes the record.
func (s *Store) DeleteUser(_ context.Context, userID string) error {
	return s.mutate(func(doc *fileDoc) error {
		i := findByID(doc, userID)
		if i < 0 {
			return fmt.Errorf("%w: %q", directory.ErrNotFound, userID)
		}
		doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
		return nil
	})
}

// RevokeSessions invalidates previously issued session tokens by bumping
// the tokens-valid-after watermark.
func (s *Store) RevokeSessions(_ context.Context, userID string) error {
	_, err := s.mutateUser(userID, func(rec *directory.UserRecord) error {
		t := s.now()
		rec.TokensValidAfter = &t
		return nil
	})
	return err
}

// UpdateUser applies a partial update and returns the updated record.
func (s *Store) UpdateUser(_ context.Context, userID string, fields directory.UpdateFields) (*directory.UserRecord, error) {
	return s.mutateUser(userID, func(rec *directory.UserRecord) error {
		if fields.Email != nil {
			if err := validateEmail(*fields.Email); err != nil {
				return err
			}
			rec.Email = *fields.Email
		}
		if fields.PhoneNumber != nil {
			if err := validatePhone(*fields.PhoneNumber); err != nil {
				return err
			}
			rec.PhoneNumber = *fields.PhoneNumber
		}
		if fields.DisplayName != nil {
			rec.DisplayName = *fields.DisplayName
		}
		if fields.Verified != nil {
			rec.Verified = *fields.Verified
		}
		if fields.Disabled != nil {
			rec.Disabled = *fields.Disabled
		}
		if fields.Claims != nil {
			rec.Claims = fields.Claims
		}
		return nil
	})
}

// CreateUser creates a record with a freshly assigned id.
func (s *Store) CreateUser(_ context.Context, fields directory.CreateFields) (*directory.UserRecord, error) {
	if fields.Email == "" && fields.PhoneNumber == "" && fields.DisplayName == "" {
		return nil, fmt.Errorf("%w: record needs an email, phone number, or display name", directory.ErrInvalidField)
	}
	if fields.Email != "" {
		if err := validateEmail(fields.Email); err != nil {
			return nil, err
		}
	}
	if fields.PhoneNumber != "" {
		if err := validatePhone(fields.PhoneNumber); err != nil {
			return nil, err
		}
	}

	rec := directory.UserRecord{
		ID:          s.newID(),
		Email:       fields.Email,
		PhoneNumber: fields.PhoneNumber,
		DisplayName: fields.DisplayName,
		Verified:    fields.Verified,
		Claims:      fields.Claims,
		CreatedAt:   s.now(),
	}

	err := s.mutate(func(doc *fileDoc) error {
		for _, existing := range doc.Users {
			if rec.Email != "" && existing.Email == rec.Email {
				return fmt.Errorf("%w: email %q", directory.ErrExists, rec.Email)
			}
			if rec.PhoneNumber != "" && existing.PhoneNumber == rec.PhoneNumber {
				return fmt.Errorf("%w: phone number %q", directory.ErrExists, rec.PhoneNumber)
			}
		}
		doc.Users = append(doc.Users, rec.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListUsers returns every record, oldest first.
func (s *Store) ListUsers(_ context.Context) ([]directory.UserRecord, error) {
	var out []directory.UserRecord
	err := s.read(func(doc *fileDoc) error {
		out = make([]directory.UserRecord, 0, len(doc.Users))
		for _, rec := range doc.Users {
			out = append(out, rec.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Close releases the store. The file lock is acquired per operation, so
// there is nothing to release here.
func (s *Store) Close(context.Context) error {
	return nil
}

// read runs fn over the loaded document under both locks.
func (s *Store) read(fn func(*fileDoc) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("locking store file: %w", err)
	}
	defer s.flock.Unlock() //nolint:errcheck

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

// mutate runs fn over the loaded document and writes it back if fn succeeds.
func (s *Store) mutate(fn func(*fileDoc) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("locking store file: %w", err)
	}
	defer s.flock.Unlock() //nolint:errcheck

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// mutateUser is mutate scoped to a single record looked up by id.
func (s *Store) mutateUser(userID string, fn func(*directory.UserRecord) error) (*directory.UserRecord, error) {
	var rec directory.UserRecord
	err := s.mutate(func(doc *fileDoc) error {
		i := findByID(doc, userID)
		if i < 0 {
			return fmt.Errorf("%w: %q", directory.ErrNotFound, userID)
		}
		if err := fn(&doc.Users[i]); err != nil {
			return err
		}
		rec = doc.Users[i].Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// load reads the store file. A missing file is an empty directory.
func (s *Store) load() (*fileDoc, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileDoc{Version: currentVersion}, nil
		}
		return nil, fmt.Errorf("reading user store: %w", err)
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing user store: %w", err)
	}
	return &doc, nil
}

// save writes the store file, creating parent directories as needed.
func (s *Store) save(doc *fileDoc) error {
	if doc.Version == 0 {
		doc.Version = currentVersion
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing user store: %w", err)
	}
	return nil
}

// findByIdentifier locates a record by the identifier's kind-specific field.
func findByIdentifier(doc *fileDoc, ident identifier.Identifier) int {
	for i, rec := range doc.Users {
		switch ident.Kind {
		case identifier.KindEmail:
			if rec.Email != "" && rec.Email == ident.Raw {
				return i
			}
		case identifier.KindPhone:
			if rec.PhoneNumber != "" && rec.PhoneNumber == ident.Raw {
				return i
			}
		default:
			if rec.ID == ident.Raw {
				return i
			}
		}
	}
	return -1
}

// findByID locates a record by its directory-native id.
func findByID(doc *fileDoc, userID string) int {
	for i, rec := range doc.Users {
		if rec.ID == userID {
			return i
		}
	}
	return -1
}

func validateEmail(email string) error {
	if identifier.Classify(email, identifier.Hints{}) != identifier.KindEmail {
		return fmt.Errorf("%w: %q is not an email address", directory.ErrInvalidField, email)
	}
	return nil
}

func validatePhone(phone string) error {
	if identifier.Classify(phone, identifier.Hints{}) != identifier.KindPhone {
		return fmt.Errorf("%w: %q is not a phone number", directory.ErrInvalidField, phone)
	}
	return nil
}
