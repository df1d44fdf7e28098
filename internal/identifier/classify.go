// Package identifier classifies operator-supplied identifier strings as
// email addresses, phone numbers, or opaque record ids.
package identifier

import "regexp"

// Kind is the interpretation chosen for an operator-supplied identifier.
type Kind int

const (
	// KindOpaque means the string is passed verbatim as a record id.
	KindOpaque Kind = iota

	// KindEmail means the string names a record by email address.
	KindEmail

	// KindPhone means the string names a record by phone number.
	KindPhone
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	default:
		return "opaque"
	}
}

// Hints force a particular interpretation regardless of shape.
// A force flag always wins over shape matching; if both are set,
// email wins.
type Hints struct {
	ForceEmail bool
	ForcePhone bool
}

// Identifier pairs the raw operator string with its classified kind.
type Identifier struct {
	Raw  string
	Kind Kind
}

// emailShape accepts local-part@domain where the domain has at least one
// dot and a 2+ character TLD. Whitespace and angle brackets are rejected
// anywhere.
var emailShape = regexp.MustCompile(`^[^\s@<>]+@[^\s@<>]+\.[A-Za-z]{2,}$`)

// phoneShape accepts an optional leading +, an optional parenthesized
// area code, then 3+3+4..6 digit groups separated by optional dashes,
// spaces, or dots.
var phoneShape = regexp.MustCompile(`^\+?(\(\d{3}\)|\d{3})[-. ]?\d{3}[-. ]?\d{4,6}$`)

// Classify decides whether input should be treated as an email address,
// a phone number, or an opaque record id.
//
// This is a best-effort convenience heuristic, not validation: anything
// ambiguous falls through to KindOpaque and the directory remains the
// final authority on whether the record exists.
func Classify(input string, hints Hints) Kind {
	if hints.ForceEmail {
		return KindEmail
	}
	if hints.ForcePhone {
		return KindPhone
	}
	if emailShape.MatchString(input) {
		return KindEmail
	}
	if phoneShape.MatchString(input) {
		return KindPhone
	}
	return KindOpaque
}

// ClassifyAll classifies every input with the same hints, preserving order.
func ClassifyAll(inputs []string, hints Hints) []Identifier {
	idents := make([]Identifier, len(inputs))
	for i, in := range inputs {
		idents[i] = Identifier{Raw: in, Kind: Classify(in, hints)}
	}
	return idents
}
