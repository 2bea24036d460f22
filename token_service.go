package authkit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ErrTokenExpired is returned when a session token is past its expiration.
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a session token cannot be parsed or its
// signature does not verify.
var ErrTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

// SessionClaims is the JWT payload carrying an Identity through the HTTP
// surface. It is the cookie analogue of the SessionStore's JSON slot.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	UserType  UserType  `json:"type"`
	Avatar    string    `json:"avatar,omitempty"`
	Provider  Provider  `json:"provider"`
	CreatedAt time.Time `json:"createdAt"`
	LastLogin time.Time `json:"lastLogin"`
}

// Identity rebuilds the identity the claims were minted from.
func (c *SessionClaims) Identity() *Identity {
	return &Identity{
		ID:        c.Subject,
		Email:     c.Email,
		Name:      c.Name,
		Type:      c.UserType,
		Avatar:    c.Avatar,
		Provider:  c.Provider,
		CreatedAt: c.CreatedAt,
		LastLogin: c.LastLogin,
	}
}

// TokenService mints and validates identity bearing session tokens.
type TokenService interface {
	Generate(identity *Identity) (string, error)
	Validate(token string) (*SessionClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
	now             func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService instance. tokenExpiration is in
// hours, matching Config.GetTokenExpiration.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		audience:        audience,
		logger:          logger,
		now:             time.Now,
	}
}

// WithTokenClock injects a custom clock (useful for tests).
func (ts *TokenServiceImpl) WithTokenClock(clock func() time.Time) *TokenServiceImpl {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// Generate creates a signed HS256 token for identity
func (ts *TokenServiceImpl) Generate(identity *Identity) (string, error) {
	if identity == nil {
		return "", goerrors.New("identity must not be nil", goerrors.CategoryInternal)
	}

	now := ts.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   identity.ID,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		Email:     identity.Email,
		Name:      identity.Name,
		UserType:  identity.Type,
		Avatar:    identity.Avatar,
		Provider:  identity.Provider,
		CreatedAt: identity.CreatedAt,
		LastLogin: identity.LastLogin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning structured claims
func (ts *TokenServiceImpl) Validate(tokenString string) (*SessionClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token service encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, ErrTokenMalformed
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		clone := ErrTokenMalformed.Clone()
		clone.Source = ErrTokenMalformed
		return nil, clone.WithMetadata(map[string]any{"cause": err.Error()})
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token service could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
