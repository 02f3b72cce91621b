package models

import "time"

// StudySession is a shared study room joined by a short code. SetIDs maps a
// set id to the username of the member who contributed it. The creator is an
// implicit initial member. Session codes are not checked for uniqueness at
// creation; join resolves collisions with a stable first-by-id tie-break.
type StudySession struct {
	ID              string            `bson:"_id" json:"id"`
	Name            string            `bson:"name" json:"name"`
	CreatorID       string            `bson:"creator_id" json:"creator_id"`
	CreatorUsername string            `bson:"creator_username" json:"creator_username"`
	SessionCode     string            `bson:"session_code" json:"session_code"`
	SetIDs          map[string]string `bson:"set_ids" json:"set_ids"`
	MemberIDs       []string          `bson:"member_ids" json:"member_ids"`
	Timestamp       time.Time         `bson:"timestamp" json:"timestamp"`
}
