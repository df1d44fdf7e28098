// Package mongodir implements the directory service on MongoDB, for
// deployments where several operators share one directory.
package mongodir

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
)

// collectionName is the collection holding user records.
const collectionName = "users"

// Store is a MongoDB-backed directory service.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
	newID      func() string
}

// Open connects to MongoDB and returns a Store over the users collection.
func Open(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts = opts.SetTimeout(timeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to directory database: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging directory database: %w", err)
	}

	collection := client.Database(database).Collection(collectionName)
	if _, err := collection.Indexes().CreateMany(ctx, uniqueIdentifierIndexes()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensuring directory indexes: %w", err)
	}

	return &Store{
		client:     client,
		collection: collection,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.NewString() },
	}, nil
}

// UserIDByIdentifier resolves an identifier to the stored record's id.
func (s *Store) UserIDByIdentifier(ctx context.Context, ident identifier.Identifier) (string, error) {
	var doc struct {
		UserID string `bson:"user_id"`
	}
	err := s.collection.FindOne(ctx, identifierFilter(ident),
		options.FindOne().SetProjection(bson.M{"user_id": 1})).Decode(&doc)
	if err != nil {
		return "", wrapErr(err, ident.Raw)
	}
	return doc.UserID, nil
}

// UserByIdentifier resolves an identifier and returns the full record.
func (s *Store) UserByIdentifier(ctx context.Context, ident identifier.Identifier) (*directory.UserRecord, error) {
	var doc userDocument
	if err := s.collection.FindOne(ctx, identifierFilter(ident)).Decode(&doc); err != nil {
		return nil, wrapErr(err, ident.Raw)
	}
	rec := doc.toRecord()
	return &rec, nil
}

// SetDisabled sets the disabled flag and returns the updated record.
func (s *Store) SetDisabled(ctx context.Context, userID string, disabled bool) (*directory.UserRecord, error) {
	return s.findAndUpdate(ctx, userID, bson.M{"$set": bson.M{"disabled": disabled}})
}

// DeleteUser permanently removes the record.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return wrapErr(err, userID)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %q", directory.ErrNotFound, userID)
	}
	return nil
}

// RevokeSessions bumps the tokens-valid-after watermark.
func (s *Store) RevokeSessions(ctx context.Context, userID string) error {
	_, err := s.findAndUpdate(ctx, userID, bson.M{"$set": bson.M{"tokens_valid_after": s.now()}})
	return err
}

// UpdateUser applies a partial update and returns the updated record.
func (s *Store) UpdateUser(ctx context.Context, userID string, fields directory.UpdateFields) (*directory.UserRecord, error) {
	set, err := updateSet(fields)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.userByID(ctx, userID)
	}
	return s.findAndUpdate(ctx, userID, bson.M{"$set": set})
}

// CreateUser inserts a record with a freshly assigned id.
func (s *Store) CreateUser(ctx context.Context, fields directory.CreateFields) (*directory.UserRecord, error) {
	if fields.Email == "" && fields.PhoneNumber == "" && fields.DisplayName == "" {
		return nil, fmt.Errorf("%w: record needs an email, phone number, or display name", directory.ErrInvalidField)
	}
	if fields.Email != "" && identifier.Classify(fields.Email, identifier.Hints{}) != identifier.KindEmail {
		return nil, fmt.Errorf("%w: %q is not an email address", directory.ErrInvalidField, fields.Email)
	}
	if fields.PhoneNumber != "" && identifier.Classify(fields.PhoneNumber, identifier.Hints{}) != identifier.KindPhone {
		return nil, fmt.Errorf("%w: %q is not a phone number", directory.ErrInvalidField, fields.PhoneNumber)
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

	if _, err := s.collection.InsertOne(ctx, recordToDocument(rec)); err != nil {
		return nil, wrapErr(err, rec.ID)
	}
	return &rec, nil
}

// ListUsers returns every record, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]directory.UserRecord, error) {
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"created_at": 1}))
	if err != nil {
		return nil, wrapErr(err, "")
	}
	defer cursor.Close(ctx)

	var out []directory.UserRecord
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding user record: %w", err)
		}
		out = append(out, doc.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapErr(err, "")
	}
	return out, nil
}

// Close disconnects from the database.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// userByID fetches a record by its directory-native id.
func (s *Store) userByID(ctx context.Context, userID string) (*directory.UserRecord, error) {
	var doc userDocument
	if err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		return nil, wrapErr(err, userID)
	}
	rec := doc.toRecord()
	return &rec, nil
}

// findAndUpdate applies update to the record and returns the post-update
// document.
func (s *Store) findAndUpdate(ctx context.Context, userID string, update bson.M) (*directory.UserRecord, error) {
	var doc userDocument
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		return nil, wrapErr(err, userID)
	}
	rec := doc.toRecord()
	return &rec, nil
}

// wrapErr translates driver errors into directory sentinel errors.
func wrapErr(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %q", directory.ErrNotFound, subject)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %q", directory.ErrExists, subject)
	default:
		return fmt.Errorf("directory request failed: %w", err)
	}
}
