package fake

import (
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/jtessler/userctl/internal/identifier"
)

func TestCreateFields_ShapesMatchClassifier(t *testing.T) {
	g := New(language.English, WithSeed(1))

	for _, fields := range g.Batch(50) {
		if kind := identifier.Classify(fields.Email, identifier.Hints{}); kind != identifier.KindEmail {
			t.Errorf("generated email %q classifies as %v", fields.Email, kind)
		}
		if kind := identifier.Classify(fields.PhoneNumber, identifier.Hints{}); kind != identifier.KindPhone {
			t.Errorf("generated phone %q classifies as %v", fields.PhoneNumber, kind)
		}
		if fields.DisplayName == "" {
			t.Error("generated record has empty display name")
		}
	}
}

func TestCreateFields_EmailsUnique(t *testing.T) {
	g := New(language.English, WithSeed(2))

	seen := map[string]bool{}
	for _, fields := range g.Batch(100) {
		if seen[fields.Email] {
			t.Fatalf("duplicate email %q", fields.Email)
		}
		seen[fields.Email] = true
	}
}

func TestNew_LocalePools(t *testing.T) {
	g := New(language.Spanish, WithSeed(3))
	fields := g.CreateFields()

	found := false
	for _, given := range pools[language.Spanish].given {
		if strings.HasPrefix(fields.DisplayName, given+" ") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("display name %q not drawn from Spanish pool", fields.DisplayName)
	}
}

func TestNew_UnsupportedLocaleFallsBack(t *testing.T) {
	g := New(language.French, WithSeed(4))
	fields := g.CreateFields()
	if fields.DisplayName == "" {
		t.Fatal("fallback generator produced empty record")
	}
}

func TestWithSeed_Deterministic(t *testing.T) {
	a := New(language.English, WithSeed(42)).Batch(5)
	b := New(language.English, WithSeed(42)).Batch(5)

	for i := range a {
		if a[i].Email != b[i].Email || a[i].PhoneNumber != b[i].PhoneNumber ||
			a[i].DisplayName != b[i].DisplayName || a[i].Verified != b[i].Verified {
			t.Errorf("record %d differs between seeded generators: %+v vs %+v", i, a[i], b[i])
		}
	}
}
