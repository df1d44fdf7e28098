package cmd

import (
	"testing"

	"github.com/jtessler/userctl/internal/directory"
)

func TestDiffUpdateFieldsOnlyChanged(t *testing.T) {
	rec := &directory.UserRecord{
		ID:          "uid-0001",
		Email:       "alice@example.com",
		PhoneNumber: "555-123-4567",
		DisplayName: "Alice",
		Verified:    true,
	}

	fields, err := diffUpdateFields(rec, map[string]string{
		"email":        "alice@example.com",
		"phone":        "555-999-0000",
		"display_name": "Alice",
		"verified":     "true",
		"disabled":     "false",
	})
	if err != nil {
		t.Fatalf("diffUpdateFields: %v", err)
	}

	if fields.Email != nil {
		t.Error("unchanged email should not be set")
	}
	if fields.PhoneNumber == nil || *fields.PhoneNumber != "555-999-0000" {
		t.Errorf("PhoneNumber = %v, want 555-999-0000", fields.PhoneNumber)
	}
	if fields.Verified != nil || fields.Disabled != nil {
		t.Error("unchanged bool fields should not be set")
	}
}

func TestDiffUpdateFieldsNoChanges(t *testing.T) {
	rec := &directory.UserRecord{
		ID:       "uid-0001",
		Email:    "alice@example.com",
		Disabled: true,
	}

	fields, err := diffUpdateFields(rec, map[string]string{
		"email":        "alice@example.com",
		"phone":        "",
		"display_name": "",
		"verified":     "false",
		"disabled":     "true",
	})
	if err != nil {
		t.Fatalf("diffUpdateFields: %v", err)
	}
	if !fields.Empty() {
		t.Errorf("expected empty update, got %+v", fields)
	}
}

func TestDiffUpdateFieldsBoolFlip(t *testing.T) {
	rec := &directory.UserRecord{ID: "uid-0001"}

	fields, err := diffUpdateFields(rec, map[string]string{
		"verified": "true",
		"disabled": "true",
	})
	if err != nil {
		t.Fatalf("diffUpdateFields: %v", err)
	}
	if fields.Verified == nil || !*fields.Verified {
		t.Error("verified flip not captured")
	}
	if fields.Disabled == nil || !*fields.Disabled {
		t.Error("disabled flip not captured")
	}
}

func TestDiffUpdateFieldsBadBool(t *testing.T) {
	rec := &directory.UserRecord{ID: "uid-0001"}

	if _, err := diffUpdateFields(rec, map[string]string{"verified": "yes please", "disabled": "false"}); err == nil {
		t.Error("expected error for unparsable verified value")
	}
	if _, err := diffUpdateFields(rec, map[string]string{"verified": "true", "disabled": "nope"}); err == nil {
		t.Error("expected error for unparsable disabled value")
	}
}
