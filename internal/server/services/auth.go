package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/logging"
	"github.com/dmitrijs2005/walletapi/internal/server/auth"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/dmitrijs2005/walletapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletapi/internal/server/revocation"
	"github.com/uptrace/bun"
)

// dummyPassword is hashed once so that logins for unknown emails pay the
// same bcrypt cost as logins with a wrong password.
const dummyPassword = "walletapi-timing-equalizer"

// LoginResult is what a successful login hands back to the transport.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthService verifies credentials, issues session tokens and checks them
// on protected routes.
type AuthService struct {
	db          bun.IDB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	issuer      *auth.TokenIssuer
	denylist    revocation.Denylist
	logger      logging.Logger
	now         func() time.Time
	dummyDigest string
}

func NewAuthService(db bun.IDB, m repomanager.RepositoryManager, hasher PasswordHasher, issuer *auth.TokenIssuer,
	denylist revocation.Denylist, logger logging.Logger) *AuthService {

	// a failed hash leaves the digest empty; Verify then fails fast, which is
	// still the correct answer
	dummy, _ := hasher.Hash(dummyPassword)

	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		issuer:      issuer,
		denylist:    denylist,
		logger:      logger,
		now:         time.Now,
		dummyDigest: dummy,
	}
}

// Login checks the credential pair and issues a token. Unknown emails and
// wrong passwords both return common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	in := LoginInput{Email: email, Password: password}
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(in.Password, s.dummyDigest)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error looking up user", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, claims, err := s.issuer.Issue(auth.Subject{UserID: user.ID.String(), Email: user.Email})
	if err != nil {
		s.logger.Error(ctx, "error issuing token", "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Authorize validates a bearer token and rejects revoked ones.
func (s *AuthService) Authorize(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.issuer.Validate(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error(ctx, "error checking token revocation", "error", err)
		return nil, common.ErrorInternal
	}
	if revoked {
		return nil, common.ErrTokenRevoked
	}

	return claims, nil
}

// Logout revokes the token described by claims for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ExpiresAt == nil {
		return common.ErrInvalidToken
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error(ctx, "error revoking token", "error", err)
		return common.ErrorInternal
	}
	return nil
}
