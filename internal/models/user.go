package models

import "time"

// User mirrors the user object returned by the notes API. The frontend never
// derives or stores anything beyond what the API sends.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}
