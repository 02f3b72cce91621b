package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendRequest is a pending request from one user to another. At most one
// request exists per ordered (from, to) pair; symmetric requests are
// independent. Requests are deleted on accept or decline.
type FriendRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From      string             `bson:"from" json:"from"`
	To        string             `bson:"to" json:"to"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// AcceptedNotice is a transient record created when a request is accepted,
// addressed to the original requester. It only drives a one-time notification
// and is deleted once acknowledged; the friends arrays stay authoritative.
type AcceptedNotice struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From      string             `bson:"from" json:"from"` // the acceptor
	To        string             `bson:"to" json:"to"`     // the original requester
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
