package model

import "strings"

// User is the signed-in console operator.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Initials returns up to two upper-case initials of the user's name, or "U"
// when the name is unknown.
func (u User) Initials() string {
	words := strings.Fields(u.Name)
	if len(words) == 0 {
		return "U"
	}

	initials := make([]rune, 0, 2)
	for _, w := range words {
		initials = append(initials, []rune(strings.ToUpper(w))[0])
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// DisplayName returns the user's name, defaulting to "User".
func (u User) DisplayName() string {
	if u.Name == "" {
		return "User"
	}
	return u.Name
}
