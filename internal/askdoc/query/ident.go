package query

import (
	"github.com/google/uuid"
)

// IDGenerator produces the opaque correlation tokens attached to each request.
// Tokens are not credentials and carry no stability guarantee across calls.
type IDGenerator interface {
	SessionID() string
	UserID() string
}

// UUIDGenerator issues random v4 UUIDs prefixed by their role.
type UUIDGenerator struct{}

// SessionID returns a fresh session correlation token
func (UUIDGenerator) SessionID() string {
	return "session-" + uuid.NewString()
}

// UserID returns a fresh user correlation token
func (UUIDGenerator) UserID() string {
	return "user-" + uuid.NewString()
}
