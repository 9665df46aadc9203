package domain

import "time"

// ChatSession is the metadata of one AI-assistant conversation. Persisted
// separately from business data.
type ChatSession struct {
	ID         string    `json:"id" bson:"_id"`
	Title      string    `json:"title" bson:"title"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	LastActive time.Time `json:"last_active" bson:"last_active"`
}
