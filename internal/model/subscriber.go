package model

import "time"

// SubscriberStatus enumerates the lifecycle states of a subscriber.
type SubscriberStatus string

const (
	StatusPendingConfirmation SubscriberStatus = "pending_confirmation"
	StatusConfirmed           SubscriberStatus = "confirmed"
)

// Subscriber represents a registered email address with a confirmation state.
// The status transition is one-way: pending_confirmation -> confirmed.
type Subscriber struct {
	ID           string           `bson:"_id"`
	Email        string           `bson:"email"`
	Name         string           `bson:"name"`
	Status       SubscriberStatus `bson:"status"`
	SubscribedAt time.Time        `bson:"subscribed_at"`
}

// ConfirmedSubscriber is the projection used for newsletter fan-out.
type ConfirmedSubscriber struct {
	ID    string `bson:"_id"`
	Email string `bson:"email"`
}
