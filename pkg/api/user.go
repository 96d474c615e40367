package api

import (
	"fmt"
	"strings"
)

// Level describes a player's self-declared sport level.
type Level string

const (
	LevelBeginner     Level = "debutant"
	LevelIntermediate Level = "intermediaire"
	LevelAdvanced     Level = "avance"
	LevelPro          Level = "pro"
)

// Levels lists the accepted levels in ascending order.
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelPro}

// ParseLevel validates a level value as accepted by the API.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown sport level %q (want debutant, intermediaire, avance or pro)", s)
}

// User is the profile returned by users/me/ and auth/register/.
type User struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	City      string  `json:"ville"`
	District  string  `json:"quartier"`
	Bio       string  `json:"bio"`
	Photo     *string `json:"photo_profil"`
	Level     Level   `json:"niveau_sportif"`
}

// ProfileUpdate is a partial update sent with PATCH users/me/.
// Nil fields are omitted and left unchanged on the server.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	City      *string `json:"ville,omitempty"`
	District  *string `json:"quartier,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Level     *Level  `json:"niveau_sportif,omitempty"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
