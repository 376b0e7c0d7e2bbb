// Package services contains server-side business logic: account lifecycle
// and authentication on top of the repositories.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/logging"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/dmitrijs2005/walletapi/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// UserService creates, lists, fetches and deletes accounts.
type UserService struct {
	db          bun.IDB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger
}

func NewUserService(db bun.IDB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger,
	}
}

// CreateUser validates in, hashes the password and stores the account.
// The plaintext password never reaches the store.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: digest,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	repo := s.repomanager.Users(s.db)

	users, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return user, nil
}

// DeleteUser removes the account with id. Tokens already issued to it stay
// valid until they expire.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	repo := s.repomanager.Users(s.db)

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error deleting user: %w", err)
	}

	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}
