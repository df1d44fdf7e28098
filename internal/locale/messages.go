package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys for operator-facing output. The English text doubles as the
// catalog key, so an untranslated message still renders correctly.
const (
	MsgDisabled        = "disabled %s"
	MsgEnabled         = "enabled %s"
	MsgDeleted         = "deleted %s"
	MsgRevoked         = "revoked sessions for %s"
	MsgCreated         = "created user %s"
	MsgCreatedFake     = "created %d synthetic users"
	MsgUpdated         = "updated user %s"
	MsgResolveFailed   = "could not resolve %s: %v"
	MsgActionFailed    = "%s failed: %v"
	MsgPartialFailure  = "%d of %d operations failed"
	MsgNoUsers         = "no users found"
	MsgNothingToUpdate = "nothing to update"
	MsgAborted         = "aborted"
)

// entry is one message with its translations.
type entry struct {
	key string
	es  string
	de  string
}

var entries = []entry{
	{MsgDisabled, "usuario %s deshabilitado", "%s deaktiviert"},
	{MsgEnabled, "usuario %s habilitado", "%s aktiviert"},
	{MsgDeleted, "usuario %s eliminado", "%s gelöscht"},
	{MsgRevoked, "sesiones revocadas para %s", "Sitzungen für %s widerrufen"},
	{MsgCreated, "usuario %s creado", "Benutzer %s angelegt"},
	{MsgCreatedFake, "%d usuarios sintéticos creados", "%d synthetische Benutzer angelegt"},
	{MsgUpdated, "usuario %s actualizado", "Benutzer %s aktualisiert"},
	{MsgResolveFailed, "no se pudo resolver %s: %v", "%s konnte nicht aufgelöst werden: %v"},
	{MsgActionFailed, "%s falló: %v", "%s fehlgeschlagen: %v"},
	{MsgPartialFailure, "%d de %d operaciones fallaron", "%d von %d Operationen fehlgeschlagen"},
	{MsgNoUsers, "no se encontraron usuarios", "keine Benutzer gefunden"},
	{MsgNothingToUpdate, "nada que actualizar", "nichts zu aktualisieren"},
	{MsgAborted, "cancelado", "abgebrochen"},
}

// messages is the immutable catalog backing every printer.
var messages = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, e := range entries {
		// Errors here would be programming mistakes in the tables above;
		// SetString only fails on malformed keys or tags.
		_ = b.SetString(language.English, e.key, e.key)
		_ = b.SetString(language.Spanish, e.key, e.es)
		_ = b.SetString(language.German, e.key, e.de)
	}
	return b
}
