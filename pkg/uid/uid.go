package uid

import "github.com/google/uuid"

// New generates a random (v4) identifier for users, inventory items and requests.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether id is a well-formed UUID.
// Services use it to skip lookups for ids that can never exist.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
