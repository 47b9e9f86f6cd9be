package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload of host-issued access tokens.
type JWTClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the caller identity.
func (c *JWTClaims) Actor() Actor {
	return Actor{UserID: c.UserID, Username: c.Username}
}
