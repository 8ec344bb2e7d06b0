// Credential service
// HTTP API for registering and logging in users against a PostgreSQL users table.
//
//	POST /register  {"email": "...", "password": "..."}
//	POST /login     {"email": "...", "password": "..."}
//	GET  /health

package main

import (
	"github.com/andrasnagy-data/credentials/internal/components/auth"
	"github.com/andrasnagy-data/credentials/internal/server"
	"github.com/andrasnagy-data/credentials/internal/shared/config"
	"github.com/andrasnagy-data/credentials/internal/shared/database"
	"github.com/andrasnagy-data/credentials/internal/shared/logging"
	"github.com/andrasnagy-data/credentials/internal/shared/password"
	"go.uber.org/fx"
)

func options() fx.Option {
	return fx.Options(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewPgxPool,
			database.NewDB,
			server.NewServer,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			password.NewHasherFromConfig,
			auth.NewRepo,
			auth.NewTokenIssuer,
			auth.NewService,
			fx.Annotate(auth.NewRouter, fx.ResultTags(`name:"authRouter"`)),
		),
		fx.Invoke((*server.Server).Start),
	)
}

func main() {
	fx.New(options()).Run()
}
