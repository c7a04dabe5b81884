package engine

import (
	"github.com/google/uuid"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// uidNamespace scopes the name-based UUIDs of this application.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespace))

// contactUID returns a stable UUID (version 5) for a contact name, so exports and
// calendar feeds keep the same identifiers across runs.
func contactUID(name string) string {
	return uuid.NewSHA1(uidNamespace, []byte(name)).String()
}
