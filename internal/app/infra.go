package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/maherraissi/MedFlow/config"
	"github.com/maherraissi/MedFlow/pkg/database"
	"github.com/maherraissi/MedFlow/pkg/email"
	redispkg "github.com/maherraissi/MedFlow/pkg/redis"
	"github.com/maherraissi/MedFlow/pkg/session"
	stripepkg "github.com/maherraissi/MedFlow/pkg/stripe"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideGorm),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideSessionManager),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideStripeClient),
)

func ProvideGorm(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewGormFromCentral(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return database.Close(db)
		},
	})
	return db, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideSessionManager(rdb *redis.Client, cfg *config.Config) *session.Manager {
	return session.NewManager(rdb, cfg)
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideStripeClient(cfg *config.Config) *stripepkg.Client {
	return stripepkg.New(cfg.Stripe)
}
