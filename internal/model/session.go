package model

import "time"

// Session is the signed-in state kept between runs.
type Session struct {
	SavedAt time.Time `json:"savedAt"`
	Token   string    `json:"token"`
	User    User      `json:"user"`
}

// Valid reports whether the session has both a token and a user.
func (s Session) Valid() bool {
	return s.Token != "" && s.User.Name+s.User.Email != ""
}
