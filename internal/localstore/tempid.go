package localstore

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gymdesk/gymdesk/internal/models"
)

const tempIDPrefix = "local-"

// AssignTempID gives a routine without an id a temporary local id. Routines
// that already have an id are returned unchanged.
func AssignTempID(r models.Routine) models.Routine {
	if r.HasID() {
		return r
	}
	id := tempIDPrefix + uuid.NewString()
	r.ID = &id
	return r
}

// IsTempID reports whether id was assigned locally by AssignTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}
