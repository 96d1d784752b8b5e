package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SubscriptionToken proves control of a mailbox during confirmation. A token
// maps to exactly one subscriber; a subscriber may hold several tokens, of
// which only the most recently issued one is left active.
type SubscriptionToken struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Token        string        `bson:"token"`
	SubscriberID string        `bson:"subscriber_id"`
	Invalidated  bool          `bson:"invalidated"`
	ExpiresAt    time.Time     `bson:"expires_at"`
	CreatedAt    time.Time     `bson:"created_at"`
}
