// Package models holds the records stored by the devserver.
package models

import "time"

// RoleUser is the only role the devserver hands out.
const RoleUser = "USER"

type User struct {
	ID           string
	Email        string
	UserName     string
	FirstName    string
	LastName     string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
