package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/walletapi/internal/admin"
	"github.com/dmitrijs2005/walletapi/internal/dbx"
	"github.com/dmitrijs2005/walletapi/internal/logging"
	"github.com/dmitrijs2005/walletapi/internal/server/auth"
	"github.com/dmitrijs2005/walletapi/internal/server/config"
	"github.com/dmitrijs2005/walletapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletapi/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, "walletapi-admin", cfg.LogLevel)

	db, err := dbx.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db.DB); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	us := services.NewUserService(db, m, auth.NewPasswordHasher(cfg.BcryptCost), logger)

	app := admin.NewApp(us, os.Stdin, os.Stdout)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

}
