package models

import "time"

// User represents a registered user of the application. The password field
// holds a bcrypt hash and is never serialized.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,min=3,max=100"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=6"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Principal is the authenticated identity resolved from a request's bearer
// token. It is produced only by the auth middleware and passed explicitly to
// services; ownership checks compare the ID, never just the username.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
