// Command seed creates an admin account and a fake product catalog in MongoDB.
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"

	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/config"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/store"
	"luxegear-backend/internal/store/mongostore"
)

func main() {
	var (
		adminEmail    string
		adminPassword string
		productCount  int
		seed          uint64
	)
	flag.StringVar(&adminEmail, "admin-email", "admin@luxegear.com", "Email of the admin account to create")
	flag.StringVar(&adminPassword, "admin-password", "", "Password of the admin account (required)")
	flag.IntVar(&productCount, "products", 24, "Number of fake products to create")
	flag.Uint64Var(&seed, "seed", 0, "Random seed, 0 for a random catalog")
	flag.Parse()

	log := logger.New(logger.DefaultConfig())
	defer func() { _ = log.Sync() }()

	if len(adminPassword) < domain.MinPasswordLength {
		log.Fatal("An -admin-password of at least 6 characters is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.Mongo.Database)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("Failed to create indexes", zap.Error(err))
	}

	if err := seedAdmin(ctx, mongostore.NewUserStore(db), adminEmail, adminPassword); err != nil {
		log.Fatal("Failed to create admin", zap.Error(err))
	}
	log.Info("Admin account ready", zap.String("email", adminEmail))

	products := mongostore.NewProductStore(db)
	faker := gofakeit.New(seed)
	for i := 0; i < productCount; i++ {
		p := fakeProduct(faker, domain.Categories[i%len(domain.Categories)])
		if err := products.Create(ctx, p); err != nil {
			log.Fatal("Failed to create product", zap.Error(err))
		}
	}
	log.Info("Catalog seeded", zap.Int("products", productCount))
}

// seedAdmin creates the admin account, or promotes an existing account with that email.
func seedAdmin(ctx context.Context, users store.UserStore, email, password string) error {
	email = domain.NormalizeEmail(email)
	existing, err := users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = domain.RoleAdmin
		return users.Update(ctx, existing)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return users.Create(ctx, &domain.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Avatar:       domain.DefaultAvatar(email),
	})
}
