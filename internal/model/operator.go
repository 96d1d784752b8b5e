package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Operator is an account allowed to publish newsletter issues. The stored
// password hash is an argon2id encoded verifier, never a plaintext password.
type Operator struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Username     string        `bson:"username"`
	PasswordHash string        `bson:"password_hash"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}
