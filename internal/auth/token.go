package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that is malformed,
// carries a bad signature, or otherwise fails validation. Callers must treat
// it as "no identity", never as a default one.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and verifying JWT tokens for numeric subjects.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. A non-positive ttlMinutes disables
// the expiry claim entirely; the Sign/Verify contract is the same either way.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	var ttl time.Duration
	if ttlMinutes > 0 {
		ttl = time.Duration(ttlMinutes) * time.Minute
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the JWT payload.
type Claims struct {
	SubjectID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Sign builds and signs a token for the subject id.
func (tm *TokenManager) Sign(subjectID int64) (string, error) {
	claims := &Claims{SubjectID: subjectID}
	if tm.ttl > 0 {
		now := time.Now()
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(tm.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify validates the token and returns the subject id encoded at signing
// time. Any failure yields ErrInvalidToken.
func (tm *TokenManager) Verify(tokenStr string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.SubjectID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.SubjectID, nil
}
