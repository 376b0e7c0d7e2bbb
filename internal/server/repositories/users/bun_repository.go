// Package users implements the User Store on top of the bun ORM.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletapi/internal/common"
	"github.com/dmitrijs2005/walletapi/internal/dbx"
	"github.com/dmitrijs2005/walletapi/internal/server/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db bun.IDB
}

func NewBunRepository(db bun.IDB) *BunRepository {
	return &BunRepository{db: db}
}

// Create inserts user and refreshes it with the stored row, including
// database-assigned timestamps. A duplicate email yields
// common.ErrorAlreadyExists.
func (r *BunRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := r.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("db error: %w", common.ErrorAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// List returns every user, oldest first.
func (r *BunRepository) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)

	err := r.db.NewSelect().
		Model(&users).
		Order("created_at ASC", "id ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

func (r *BunRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *BunRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *BunRepository) getOne(ctx context.Context, column string, arg any) (*models.User, error) {
	user := &models.User{}

	err := r.db.NewSelect().
		Model(user).
		Where("?TableAlias.? = ?", bun.Ident(column), arg).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Delete removes the user with id, or returns common.ErrorNotFound when no
// such row exists.
func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("?TableAlias.? = ?", bun.Ident("id"), id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
