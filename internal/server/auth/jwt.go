package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of a session token: the standard registered claims
// plus the subject's user id and, optionally, email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// Subject identifies whom a token is issued for.
type Subject struct {
	UserID string
	Email  string
}

// TokenIssuer signs and validates HS256 session tokens with a process-wide
// secret. It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secretKey []byte
	validity  time.Duration
	now       func() time.Time
}

// NewTokenIssuer returns an issuer producing tokens valid for validity.
func NewTokenIssuer(secretKey []byte, validity time.Duration) *TokenIssuer {
	return &TokenIssuer{secretKey: secretKey, validity: validity, now: time.Now}
}

// Validity returns the window every issued token is valid for.
func (i *TokenIssuer) Validity() time.Duration {
	return i.validity
}

// Issue signs a token for subject, expiring validity after now.
func (i *TokenIssuer) Issue(subject Subject) (string, *Claims, error) {
	now := i.now()

	// NumericDate has whole-second precision; round exp up so a token is
	// never rejected before now+validity.
	exp := now.Add(i.validity)
	if t := exp.Truncate(time.Second); !t.Equal(exp) {
		exp = t.Add(time.Second)
	}

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: subject.UserID,
		Email:  subject.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", nil, err
	}

	return tokenString, claims, nil
}

// Validate checks signature, algorithm and expiry of tokenString. It returns
// common.ErrTokenExpired for an expired but otherwise genuine token and
// common.ErrInvalidToken for everything else.
func (i *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
