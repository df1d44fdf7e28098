package mongodir

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jtessler/userctl/internal/directory"
	"github.com/jtessler/userctl/internal/identifier"
)

func TestRecordDocumentRoundTrip(t *testing.T) {
	lastSignIn := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)
	rec := directory.UserRecord{
		ID:          "uid-42",
		Email:       "alice@example.com",
		PhoneNumber: "555-123-4567",
		DisplayName: "Alice",
		Verified:    true,
		Disabled:    true,
		Claims:      map[string]any{"role": "admin"},
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		LastSignIn:  &lastSignIn,
	}

	got := recordToDocument(rec).toRecord()
	assert.Equal(t, rec, got)
}

func TestIdentifierFilter(t *testing.T) {
	tests := []struct {
		name  string
		ident identifier.Identifier
		field string
	}{
		{"email kind", identifier.Identifier{Raw: "a@x.com", Kind: identifier.KindEmail}, "email"},
		{"phone kind", identifier.Identifier{Raw: "555-123-4567", Kind: identifier.KindPhone}, "phone_number"},
		{"opaque kind", identifier.Identifier{Raw: "uid-1", Kind: identifier.KindOpaque}, "user_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := identifierFilter(tt.ident)
			require.Len(t, filter, 1)
			assert.Equal(t, tt.ident.Raw, filter[tt.field])
		})
	}
}

func TestUpdateSet_OnlyTouchedFields(t *testing.T) {
	name := "New Name"
	disabled := true

	set, err := updateSet(directory.UpdateFields{
		DisplayName: &name,
		Disabled:    &disabled,
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", set["display_name"])
	assert.Equal(t, true, set["disabled"])
	assert.NotContains(t, set, "email")
	assert.NotContains(t, set, "phone_number")
	assert.NotContains(t, set, "verified")
	assert.NotContains(t, set, "claims")
}

func TestUpdateSet_ValidatesShapes(t *testing.T) {
	bad := "not-an-email"
	_, err := updateSet(directory.UpdateFields{Email: &bad})
	assert.ErrorIs(t, err, directory.ErrInvalidField)

	badPhone := "12"
	_, err = updateSet(directory.UpdateFields{PhoneNumber: &badPhone})
	assert.ErrorIs(t, err, directory.ErrInvalidField)
}

// TestUniqueIdentifierIndexes pins the index specs that make duplicate
// creates rejectable: without unique indexes on email and phone_number a
// second insert with the same email would succeed and resolution would
// return an arbitrary record.
func TestUniqueIdentifierIndexes(t *testing.T) {
	models := uniqueIdentifierIndexes()
	require.Len(t, models, 2)

	wantFields := []string{"email", "phone_number"}
	for i, model := range models {
		field := wantFields[i]

		keys, ok := model.Keys.(bson.D)
		require.True(t, ok, "%s: keys should be a bson.D", field)
		require.Len(t, keys, 1)
		assert.Equal(t, field, keys[0].Key)
		assert.Equal(t, 1, keys[0].Value)

		require.NotNil(t, model.Options, "%s: index must carry options", field)
		var opts options.IndexOptions
		for _, set := range model.Options.List() {
			require.NoError(t, set(&opts))
		}
		require.NotNil(t, opts.Unique, "%s: index must set uniqueness", field)
		assert.True(t, *opts.Unique)

		// Both fields are optional, so the index must be partial over
		// documents that actually carry the field.
		partial, ok := opts.PartialFilterExpression.(bson.D)
		require.True(t, ok, "%s: partial filter should be a bson.D", field)
		require.Len(t, partial, 1)
		assert.Equal(t, field, partial[0].Key)
	}
}

func TestUpdateSet_EmptyUpdate(t *testing.T) {
	set, err := updateSet(directory.UpdateFields{})
	require.NoError(t, err)
	assert.Empty(t, set)
}
