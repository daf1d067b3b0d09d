package models

import "time"

type User struct {
	Username string    `json:"username"`
	Password string    `json:"-"`
	Created  time.Time `json:"created_at"`
}

type Session struct {
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	Created   time.Time `json:"created_at"`
}
