package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Party identifies one of the two parents sharing the calendar.
type Party string

const (
	PartyJennifer Party = "Jennifer"
	PartyKlas     Party = "Klas"
)

// ParseParty maps a username onto a party, case-insensitively.
func ParseParty(name string) (Party, bool) {
	switch {
	case strings.EqualFold(name, string(PartyJennifer)):
		return PartyJennifer, true
	case strings.EqualFold(name, string(PartyKlas)):
		return PartyKlas, true
	}
	return "", false
}

// Other returns the counterpart party.
func (p Party) Other() Party {
	if p == PartyJennifer {
		return PartyKlas
	}
	return PartyJennifer
}

// User represents one of the two account holders.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash *string   `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserResponse is the public view of a user returned by login.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ToResponse converts a User to its public view.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
	}
}
