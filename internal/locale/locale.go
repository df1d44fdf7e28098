// Package locale localizes userctl console output and selects the locale
// for synthetic-data generation.
package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supported lists the languages the catalog carries. The first entry is
// the fallback.
var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.German,
}

var matcher = language.NewMatcher(supported)

// Match maps a BCP 47 tag string (or anything close to one) to the best
// supported language. Unrecognized input falls back to English.
func Match(locale string) language.Tag {
	_, index := language.MatchStrings(matcher, locale)
	return supported[index]
}

// NewPrinter returns a printer that renders console messages in the best
// match for the requested locale.
func NewPrinter(locale string) *message.Printer {
	return message.NewPrinter(Match(locale), message.Catalog(messages))
}
