// Package models defines server-side data models persisted in the database
// and the request/response shapes the services exchange with the API layer.
package models

import "time"

// User is an account holder. The password itself is never stored: Verifier
// is a digest of the Argon2id key derived from it with Salt.
type User struct {
	ID        string    `json:"id"`
	UserName  string    `json:"username"`
	Salt      []byte    `json:"-"`
	Verifier  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is handed out at login and on refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}
