package identifier

import (
	"testing"
)

func TestClassify_Shapes(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		// Email shapes
		{"alice@example.com", KindEmail},
		{"bob.jones@corp.co", KindEmail},
		{"user+tag@mail.example.org", KindEmail},
		{"x@y.io", KindEmail},

		// Not email: missing dot, short TLD, whitespace, angle brackets
		{"alice@example", KindOpaque},
		{"alice@example.c", KindOpaque},
		{"alice smith@example.com", KindOpaque},
		{"<alice@example.com>", KindOpaque},
		{"alice@@example.com", KindOpaque},

		// Phone shapes
		{"5551234567", KindPhone},
		{"555-123-4567", KindPhone},
		{"555.123.4567", KindPhone},
		{"555 123 4567", KindPhone},
		{"(555) 123-4567", KindPhone},
		{"+5551234567", KindPhone},
		{"+(555)123-456789", KindPhone},

		// Not phone: too few digits, too many, letters
		{"555-1234", KindOpaque},
		{"555-123-4567890", KindOpaque},
		{"555-ABC-4567", KindOpaque},

		// Opaque
		{"u_8f2k3j", KindOpaque},
		{"9XJm2LqTBwYd", KindOpaque},
		{"", KindOpaque},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Classify(tt.input, Hints{})
			if got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassify_ForceFlagsWin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		hints Hints
		want  Kind
	}{
		{"force email on opaque", "u_8f2k3j", Hints{ForceEmail: true}, KindEmail},
		{"force phone on opaque", "u_8f2k3j", Hints{ForcePhone: true}, KindPhone},
		{"force phone beats email shape", "alice@example.com", Hints{ForcePhone: true}, KindPhone},
		{"force email beats phone shape", "555-123-4567", Hints{ForceEmail: true}, KindEmail},
		{"both forces set, email wins", "whatever", Hints{ForceEmail: true, ForcePhone: true}, KindEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.input, tt.hints)
			if got != tt.want {
				t.Errorf("Classify(%q, %+v) = %v, want %v", tt.input, tt.hints, got, tt.want)
			}
		})
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	inputs := []string{"alice@example.com", "555-123-4567", "u_8f2k3j"}
	idents := ClassifyAll(inputs, Hints{})

	if len(idents) != len(inputs) {
		t.Fatalf("got %d identifiers, want %d", len(idents), len(inputs))
	}

	wantKinds := []Kind{KindEmail, KindPhone, KindOpaque}
	for i, id := range idents {
		if id.Raw != inputs[i] {
			t.Errorf("idents[%d].Raw = %q, want %q", i, id.Raw, inputs[i])
		}
		if id.Kind != wantKinds[i] {
			t.Errorf("idents[%d].Kind = %v, want %v", i, id.Kind, wantKinds[i])
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindEmail.String() != "email" || KindPhone.String() != "phone" || KindOpaque.String() != "opaque" {
		t.Errorf("unexpected Kind names: %s/%s/%s", KindEmail, KindPhone, KindOpaque)
	}
}
