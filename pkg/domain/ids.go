// Package domain holds the typed identifiers shared across modules.
//
// IDs are distinct named types over uuid.UUID so the compiler rejects
// cross-type assignment. Parsing rejects empty, malformed, and nil UUIDs
// at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "roster/pkg/domain-errors"
)

// UserID identifies a user record. Assigned by the store on insert;
// never fabricated or mutated by the service.
type UserID uuid.UUID

// ParseUserID parses a string into a UserID, rejecting empty, malformed,
// and nil values.
func ParseUserID(s string) (UserID, error) {
	if s == "" {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must be a valid UUID")
	}
	if u == uuid.Nil {
		return UserID{}, dErrors.New(dErrors.CodeInvalidInput, "user id must not be the nil UUID")
	}
	return UserID(u), nil
}

// NewUserID returns a fresh random UserID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// IsZero reports whether the ID is unset.
func (id UserID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// MarshalText implements encoding.TextMarshaler so IDs serialize as the
// canonical UUID string in JSON.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
