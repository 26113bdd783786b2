package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/gophertalk/pkg/utilities"
)

var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
)

// TokenManager mints and validates signed access/refresh tokens.
type TokenManager struct {
	cfg    Config
	method jwt.SigningMethod
	ids    *utilities.IDGenerator
	now    func() time.Time
}

func NewTokenManager(cfg Config) (*TokenManager, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q: an HMAC algorithm is required", cfg.Algorithm)
	}
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("access and refresh token secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh token secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	ids, err := utilities.NewIDGenerator(cfg.NodeID)
	if err != nil {
		return nil, fmt.Errorf("token id generator: %w", err)
	}
	return &TokenManager{cfg: cfg, method: method, ids: ids, now: time.Now}, nil
}

func (m *TokenManager) secret(t TokenType) []byte {
	if t == RefreshToken {
		return []byte(m.cfg.RefreshSecret)
	}
	return []byte(m.cfg.AccessSecret)
}

func (m *TokenManager) ttl(t TokenType) time.Duration {
	if t == RefreshToken {
		return m.cfg.RefreshTTL
	}
	return m.cfg.AccessTTL
}

// IssuePair signs a fresh access and refresh token for userID.
func (m *TokenManager) IssuePair(userID int64) (TokenPair, error) {
	access, err := m.Issue(userID, AccessToken)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.Issue(userID, RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Issue signs a single token of type t.
func (m *TokenManager) Issue(userID int64, t TokenType) (string, error) {
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl(t))),
			ID:        m.ids.Next(),
		},
		Type: t,
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret(t))
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", t, err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and issuer with the secret of
// the expected type, then checks the type claim itself.
func (m *TokenManager) ValidateToken(raw string, expected TokenType) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithTimeFunc(m.now),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.secret(expected), nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	if _, err := SubjectID(&claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// ValidateBearer extracts the token from an Authorization header value
// and validates it.
func (m *TokenManager) ValidateBearer(header string, expected TokenType) (*Claims, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return m.ValidateToken(raw, expected)
}

// BearerToken returns the token of a "Bearer <token>" header value.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

// SubjectID decodes the user id held in the subject claim.
func SubjectID(c *Claims) (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return id, nil
}
