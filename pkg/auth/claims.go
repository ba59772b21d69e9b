package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/hengonghuat/cafe-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	SubjectID int64
	Name      string
	Role      enums.ActorRole
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	SubjectID int64           `json:"subject_id"`
	Name      string          `json:"name,omitempty"`
	Role      enums.ActorRole `json:"role"`
	jwt.RegisteredClaims
}
