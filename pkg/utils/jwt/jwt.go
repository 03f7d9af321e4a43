package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v4"

	"github.com/sukryu/pSite/pkg/errors"
)

const DefaultTTL = 24 * time.Hour

// Claims is the signed payload of an identity token. Subject carries the
// user id; nothing else is consulted when a token is validated.
type Claims struct {
	gojwt.RegisteredClaims
}

func (c *Claims) UserID() string {
	return c.Subject
}

type Option func(*JWTManager)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(m *JWTManager) {
		m.now = now
	}
}

// WithIssuer sets the iss claim of issued tokens. It is informational;
// validation does not check it.
func WithIssuer(issuer string) Option {
	return func(m *JWTManager) {
		m.issuer = issuer
	}
}

// JWTManager issues and validates HS256 tokens with a single symmetric
// secret. Tokens are stateless: there is no revocation list, so a leaked
// token stays valid until it expires.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
	parser *gojwt.Parser
}

func NewJWTManager(secret string, ttl time.Duration, opts ...Option) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		// expiry is checked against the injected clock below
		parser: gojwt.NewParser(
			gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
			gojwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *JWTManager) GenerateToken(subject string) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, algorithm and expiry. A bad signature or
// malformed token yields ErrInvalidToken; an elapsed one ErrTokenExpired.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := m.parser.ParseWithClaims(tokenString, claims, func(t *gojwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		reason := "malformed token"
		if err != nil {
			reason = err.Error()
		}
		return nil, errors.ErrInvalidToken.WithReason(reason)
	}

	if claims.ExpiresAt == nil {
		return nil, errors.ErrInvalidToken.WithReason("missing expiry")
	}
	if !m.now().Before(claims.ExpiresAt.Time) {
		return nil, errors.ErrTokenExpired
	}
	return claims, nil
}

// Validate returns only the subject; it satisfies middleware.TokenValidator.
func (m *JWTManager) Validate(tokenString string) (string, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
