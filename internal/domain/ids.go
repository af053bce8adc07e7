package domain

import "github.com/google/uuid"

// canonical 8-4-4-4-12 layout; uuid.Parse also accepts urn, braced and bare hex forms
const uuidLen = 36

func NewID() string {
	return uuid.NewString()
}

// IsValidUUID reports whether s is a version 4 UUID in canonical textual form.
func IsValidUUID(s string) bool {
	if len(s) != uuidLen {
		return false
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}
