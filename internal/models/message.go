package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single direct message. Immutable once written except for the
// seen flag, which only ever transitions false -> true.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID     string             `bson:"chat_id" json:"chat_id"`
	SenderID   string             `bson:"sender_id" json:"sender_id"`
	ReceiverID string             `bson:"receiver_id" json:"receiver_id"`
	Text       string             `bson:"text" json:"text"`
	Seen       bool               `bson:"seen" json:"seen"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// Conversation holds the denormalized preview of a two-user thread. Its id is
// computed by sorting the participant ids and joining with "_", so both sides
// derive the same id without a lookup.
type Conversation struct {
	ID           string    `bson:"_id" json:"id"`
	Participants []string  `bson:"participants" json:"participants"`
	LastMessage  string    `bson:"last_message" json:"last_message"`
	LastSender   string    `bson:"last_sender" json:"last_sender"`
	LastUpdated  time.Time `bson:"last_updated" json:"last_updated"`
}

// ChatPreview is the list-display summary of one conversation from the
// viewer's perspective.
type ChatPreview struct {
	ChatID      string     `json:"chat_id"`
	User        PublicUser `json:"user"`
	LastMessage string     `json:"last_message"`
	Timestamp   time.Time  `json:"timestamp"`
	HasUnread   bool       `json:"has_unread"`
}

// ChatEntry is a render-ready element of a message list: either a message or
// a date separator inserted before it.
type ChatEntry struct {
	Separator bool      `json:"separator"`
	At        time.Time `json:"at,omitempty"`
	Message   *Message  `json:"message,omitempty"`
}
