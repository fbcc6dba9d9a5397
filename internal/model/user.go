package model

import "time"

// User is the internal record for an externally authenticated identity.
// ExternalID is unique across the store.
type User struct {
	ID         string    `json:"id" bson:"_id"`
	ExternalID string    `json:"externalId" bson:"external_id"`
	Email      *string   `json:"email" bson:"email,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

// Principal is the verified subject of a request's bearer token.
type Principal struct {
	ExternalID string
	Email      string
}
