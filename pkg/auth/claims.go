package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	ArtistName string
	SystemRole *string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID `json:"user_id"`
	ArtistName string    `json:"artist_name,omitempty"`
	SystemRole *string   `json:"system_role,omitempty"`
	jwt.RegisteredClaims
}
