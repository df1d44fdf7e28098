package mongodir

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
)

// userDocument is the on-wire shape of a user record.
type userDocument struct {
	UserID           string         `bson:"user_id"`
	Email            string         `bson:"email,omitempty"`
	PhoneNumber      string         `bson:"phone_number,omitempty"`
	DisplayName      string         `bson:"display_name,omitempty"`
	Verified         bool           `bson:"verified"`
	Disabled         bool           `bson:"disabled"`
	Claims           map[string]any `bson:"claims,omitempty"`
	CreatedAt        time.Time      `bson:"created_at"`
	LastSignIn       *time.Time     `bson:"last_sign_in,omitempty"`
	TokensValidAfter *time.Time     `bson:"tokens_valid_after,omitempty"`
}

// toRecord converts the document to the domain record.
func (d userDocument) toRecord() directory.UserRecord {
	return directory.UserRecord{
		ID:               d.UserID,
		Email:            d.Email,
		PhoneNumber:      d.PhoneNumber,
		DisplayName:      d.DisplayName,
		Verified:         d.Verified,
		Disabled:         d.Disabled,
		Claims:           d.Claims,
		CreatedAt:        d.CreatedAt,
		LastSignIn:       d.LastSignIn,
		TokensValidAfter: d.TokensValidAfter,
	}
}

// recordToDocument converts a domain record to its stored shape.
func recordToDocument(rec directory.UserRecord) userDocument {
	return userDocument{
		UserID:           rec.ID,
		Email:            rec.Email,
		PhoneNumber:      rec.PhoneNumber,
		DisplayName:      rec.DisplayName,
		Verified:         rec.Verified,
		Disabled:         rec.Disabled,
		Claims:           rec.Claims,
		CreatedAt:        rec.CreatedAt,
		LastSignIn:       rec.LastSignIn,
		TokensValidAfter: rec.TokensValidAfter,
	}
}

// uniqueIdentifierIndexes declares the unique indexes backing duplicate
// rejection on create. Email and phone number are both optional (the bson
// tags omit empty values), so each index is partial over documents where
// the field exists; without these, two records could share an email and
// identifier resolution would return an arbitrary one.
func uniqueIdentifierIndexes() []mongo.IndexModel {
	fieldIndex := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: true}}}}),
		}
	}
	return []mongo.IndexModel{
		fieldIndex("email"),
		fieldIndex("phone_number"),
	}
}

// identifierFilter builds the lookup filter for an identifier's kind.
func identifierFilter(ident identifier.Identifier) bson.M {
	switch ident.Kind {
	case identifier.KindEmail:
		return bson.M{"email": ident.Raw}
	case identifier.KindPhone:
		return bson.M{"phone_number": ident.Raw}
	default:
		return bson.M{"user_id": ident.Raw}
	}
}

// updateSet builds the $set document for a partial update. Only fields the
// caller set are written; validation mirrors the file backend.
func updateSet(fields directory.UpdateFields) (bson.M, error) {
	set := bson.M{}
	if fields.Email != nil {
		if *fields.Email != "" && identifier.Classify(*fields.Email, identifier.Hints{}) != identifier.KindEmail {
			return nil, fmt.Errorf("%w: %q is not an email address", directory.ErrInvalidField, *fields.Email)
		}
		set["email"] = *fields.Email
	}
	if fields.PhoneNumber != nil {
		if *fields.PhoneNumber != "" && identifier.Classify(*fields.PhoneNumber, identifier.Hints{}) != identifier.KindPhone {
			return nil, fmt.Errorf("%w: %q is not a phone number", directory.ErrInvalidField, *fields.PhoneNumber)
		}
		set["phone_number"] = *fields.PhoneNumber
	}
	if fields.DisplayName != nil {
		set["display_name"] = *fields.DisplayName
	}
	if fields.Verified != nil {
		set["verified"] = *fields.Verified
	}
	if fields.Disabled != nil {
		set["disabled"] = *fields.Disabled
	}
	if fields.Claims != nil {
		set["claims"] = fields.Claims
	}
	return set, nil
}
