package domain

import "time"

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	JoinedAt     time.Time `json:"joined_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// UserSummary is the public slice of a user embedded in listings and messages.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
