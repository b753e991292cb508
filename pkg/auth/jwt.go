package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vetcare/clinic-api/pkg/apperror"
)

// DefaultTokenTTL is the validity window for issued credentials.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims embeds the caller's role and scope so middleware can authorize
// without a database lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id,omitempty"`
	OwnerID  string `json:"owner_id,omitempty"`
}

type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Generate issues a signed credential for the given principal.
func (s *TokenService) Generate(userID, role, clinicID, ownerID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt: empty secret")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   userID,
		Role:     role,
		ClinicID: clinicID,
		OwnerID:  ownerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies the credential signature and expiry and returns its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.InvalidCredential("token expired", err)
		}
		return nil, apperror.InvalidCredential("invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperror.InvalidCredential("invalid token claims", nil)
	}
	return claims, nil
}
