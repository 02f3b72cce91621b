package models

import "time"

// FlashcardTerm is one term/definition pair. Order within a set is preserved
// and duplicates are allowed.
type FlashcardTerm struct {
	Term       string `bson:"term" json:"term"`
	Definition string `bson:"definition" json:"definition"`
}

// StudySet is a titled, ordered list of flashcard terms owned by one user.
type StudySet struct {
	ID              string          `bson:"_id" json:"id"`
	Title           string          `bson:"title" json:"title"`
	Terms           []FlashcardTerm `bson:"terms" json:"terms"`
	OwnerID         string          `bson:"owner_id" json:"owner_id"`
	CreatorUsername string          `bson:"creator_username,omitempty" json:"creator_username,omitempty"`
	Timestamp       time.Time       `bson:"timestamp" json:"timestamp"`
}

// StudyFolder groups sets by membership only; a set may belong to any number
// of folders.
type StudyFolder struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	SetIDs    []string  `bson:"set_ids" json:"set_ids"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
