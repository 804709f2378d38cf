package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ayam04/Contract-Farming/internal/api/handler"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
	"github.com/ayam04/Contract-Farming/internal/infrastructure/db/jsonfile"
	mongostore "github.com/ayam04/Contract-Farming/internal/infrastructure/db/mongo"
	"github.com/ayam04/Contract-Farming/internal/pkg/config"
)

// backend is the record store selected by STORE_BACKEND.
type backend struct {
	users ports.UserRepository
	crops ports.CropRepository
	ping  handler.Pinger
	close func(context.Context) error
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewUserRepository(db)
		crops := mongostore.NewCropRepository(db)
		if err := mongostore.EnsureIndexes(ctx, users, crops); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("using mongo record store")
		return &backend{
			users: users,
			crops: crops,
			ping:  mongostore.Pinger{DB: db},
			close: client.Disconnect,
		}, nil

	default:
		store, err := jsonfile.Open(cfg.Store.DataDir)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dir", store.Dir()).Msg("using file record store")
		return &backend{
			users: jsonfile.NewUserRepository(store),
			crops: jsonfile.NewCropRepository(store),
			ping:  store,
			close: func(context.Context) error { return nil },
		}, nil
	}
}
