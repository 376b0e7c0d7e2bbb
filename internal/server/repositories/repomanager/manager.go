package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/walletapi/internal/server/repositories/users"
	"github.com/uptrace/bun"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db bun.IDB) users.Repository
}
