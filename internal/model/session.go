package model

import "time"

// Session binds an opaque token to a serialized identity snapshot.
// The payload is written by the session manager and is opaque to the store.
// A session is logically expired once LastActivity is older than the
// inactivity window, even if the row still exists.
type Session struct {
	Token        string    `gorm:"primaryKey;size:64"`
	Payload      []byte    `gorm:"type:blob;not null"`
	LastActivity time.Time `gorm:"index;not null"`
	CreatedAt    time.Time
}

// TableName keeps the table name explicit.
func (Session) TableName() string { return "sessions" }
