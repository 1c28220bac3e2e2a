package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

// Pair is what a login or a refresh hands back to the client as cookies.
type Pair struct {
	AccessToken  string
	RefreshToken string
	RefreshJTI   string
	AccessExp    time.Time
	RefreshExp   time.Time
}
