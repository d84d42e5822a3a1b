package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"neighborconnect/internal/model"
)

// SessionTTL is the default lifetime of a session token.
const SessionTTL = 7 * 24 * time.Hour

const csrfSecretBytes = 32

// ErrInvalidToken is returned for every verification failure: bad signature,
// expiry, malformed input or an unexpected algorithm.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents JWT claims.
type Claims struct {
	ID   string     `json:"id"`
	Role model.Role `json:"role"`
	CSRF string     `json:"csrf"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenService creates a token service with the given secret. A
// non-positive ttl selects SessionTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		now:    time.Now,
	}
}

// TTL returns the token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for user and returns it with the freshly generated CSRF
// secret embedded in it.
func (s *TokenService) Issue(user *model.User) (token, csrf string, err error) {
	csrf, err = generateCSRFSecret()
	if err != nil {
		return "", "", err
	}

	now := s.now()
	claims := &Claims{
		ID:   user.ID.Hex(),
		Role: user.Role,
		CSRF: csrf,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}
	return token, csrf, nil
}

// Verify validates a token and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateCSRFSecret() (string, error) {
	buf := make([]byte, csrfSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
