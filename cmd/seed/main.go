package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"time"

	"go.uber.org/zap"

	"neighborconnect/internal/auth"
	"neighborconnect/internal/config"
	"neighborconnect/internal/db"
	"neighborconnect/internal/logger"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
	"neighborconnect/internal/service"
)

const seedTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		stdlog.Fatalf("init logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Disconnect(client); err != nil {
			log.Warn("disconnect mongo", zap.Error(err))
		}
	}()
	log.Info("connected to database", zap.String("database", cfg.MongoDatabase))

	if err := repository.EnsureIndexes(ctx, database); err != nil {
		return err
	}

	users := repository.NewUserRepository(database)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	email := service.NormalizeEmail(cfg.AdminEmail)

	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := model.RoleAdmin

	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := users.UpdateByID(ctx, existing.ID, model.UserChanges{Role: &admin, PasswordHash: &hash}); err != nil {
			return fmt.Errorf("promote %s: %w", email, err)
		}
		log.Info("existing user promoted to admin", zap.String("email", email), zap.String("user_id", existing.ID.Hex()))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("find %s: %w", email, err)
	}

	user := &model.User{
		Name:          cfg.AdminName,
		Email:         email,
		PasswordHash:  hash,
		Role:          model.RoleAdmin,
		StreetAddress: "n/a",
		PostalCode:    "0000",
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Info("admin user created", zap.String("email", email), zap.String("user_id", user.ID.Hex()))
	return nil
}
