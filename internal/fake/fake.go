// Package fake generates synthetic user records for demo data and load
// testing of the directory.
package fake

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/jtessler/userctl/internal/directory"
)

// namePool holds given and family names for one locale.
type namePool struct {
	given  []string
	family []string
}

var pools = map[language.Tag]namePool{
	language.English: {
		given:  []string{"Alice", "Bob", "Carol", "David", "Erin", "Frank", "Grace", "Henry", "Iris", "Jack"},
		family: []string{"Anderson", "Brown", "Clark", "Davis", "Evans", "Foster", "Green", "Hughes", "Irwin", "Jones"},
	},
	language.Spanish: {
		given:  []string{"Alejandro", "Beatriz", "Carmen", "Diego", "Elena", "Fernando", "Gabriela", "Hugo", "Inés", "Javier"},
		family: []string{"Álvarez", "Blanco", "Castillo", "Delgado", "Espinoza", "Flores", "García", "Herrera", "Ibáñez", "Jiménez"},
	},
	language.German: {
		given:  []string{"Anna", "Bernd", "Clara", "Dieter", "Elke", "Felix", "Greta", "Hans", "Ingrid", "Jonas"},
		family: []string{"Albrecht", "Becker", "Claussen", "Dietrich", "Engel", "Fischer", "Gruber", "Hoffmann", "Iversen", "Jäger"},
	},
}

// Generator produces synthetic create-user field sets.
type Generator struct {
	rand *rand.Rand
	pool namePool
	seq  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed makes generation deterministic (used by tests).
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.rand = rand.New(rand.NewSource(seed)) }
}

// New returns a generator drawing names from the pool for the given
// language. Unsupported languages draw from the English pool.
func New(tag language.Tag, opts ...Option) *Generator {
	pool, ok := pools[tag]
	if !ok {
		pool = pools[language.English]
	}

	g := &Generator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		pool: pool,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateFields returns one synthetic record. Emails are unique within a
// generator; phone shape matches what the identifier classifier accepts.
func (g *Generator) CreateFields() directory.CreateFields {
	g.seq++

	given := g.pool.given[g.rand.Intn(len(g.pool.given))]
	family := g.pool.family[g.rand.Intn(len(g.pool.family))]

	return directory.CreateFields{
		Email:       fmt.Sprintf("%s.%s.%d@example.com", asciiLower(given), asciiLower(family), g.seq),
		PhoneNumber: fmt.Sprintf("(555) %03d-%04d", g.rand.Intn(1000), g.rand.Intn(10000)),
		DisplayName: given + " " + family,
		Verified:    g.rand.Intn(2) == 0,
	}
}

// Batch returns n synthetic records.
func (g *Generator) Batch(n int) []directory.CreateFields {
	out := make([]directory.CreateFields, 0, n)
	for range n {
		out = append(out, g.CreateFields())
	}
	return out
}

// asciiLower lowercases a name and strips everything outside a-z so the
// generated email local part stays inside the classifier's email shape.
func asciiLower(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
