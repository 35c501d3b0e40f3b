// Package logging provides log field helpers that keep credentials out of
// log output. A session ID is the actor's only credential, so it is never
// logged in full.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const actorPrefixLen = 8

// Actor returns a zap field carrying an abbreviated actor ID. The prefix is
// enough to correlate log lines without reproducing the credential.
func Actor(actorID uuid.UUID) zap.Field {
	return zap.String("actor", AbbreviateID(actorID))
}

// AbbreviateID shortens a UUID to its first hex group for log output.
func AbbreviateID(id uuid.UUID) string {
	s := id.String()
	if len(s) <= actorPrefixLen {
		return s
	}
	return s[:actorPrefixLen]
}
