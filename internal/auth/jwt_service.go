package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultTokenExpiry is the lifetime of an issued bearer token.
const DefaultTokenExpiry = 7 * 24 * time.Hour

var (
	// ErrTokenMalformed is returned when the value is not a parseable JWT.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenSignatureInvalid is returned when the payload was tampered with
	// or signed with another key.
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers every other rejection.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims represents JWT claims.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

// JWTService handles token issuance and verification.
type JWTService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTService creates a new JWT service. A non-positive expiry falls back
// to DefaultTokenExpiry.
func NewJWTService(secret string, expiry time.Duration) *JWTService {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &JWTService{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Expiry returns the configured token lifetime.
func (s *JWTService) Expiry() time.Duration {
	return s.expiry
}

// Issue signs a new token for userID.
func (s *JWTService) Issue(userID uuid.UUID) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, claims, nil
}

// Verify validates a token and returns its claims. The error is one of the
// ErrToken* sentinels.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	parser := jwt.Parser{}
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil || claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// RemainingLifetime returns how long claims stay valid from now.
func (s *JWTService) RemainingLifetime(claims *Claims) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return 0
	}
	remaining := claims.ExpiresAt.Time.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
