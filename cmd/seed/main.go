package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/notekeeper/config"
	"github.com/oksasatya/notekeeper/internal/application"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
	"github.com/oksasatya/notekeeper/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/notekeeper/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/notekeeper/internal/infrastructure/postgres"
	"github.com/oksasatya/notekeeper/pkg/helpers"
	"github.com/oksasatya/notekeeper/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	var (
		users repository.UserRepository
		notes repository.NoteRepository
	)
	switch cfg.StoreDriver {
	case "mongo":
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		db := client.Database(cfg.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("failed to create mongo indexes: %v", err)
		}
		users, notes = mongoinfra.NewUserRepository(db), mongoinfra.NewNoteRepository(db)
	case "memory":
		log.Fatal("nothing to seed with STORE_DRIVER=memory")
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		users, notes = pginfra.NewUserRepository(pool), pginfra.NewNoteRepository(pool)
	}

	// The outbox captures the verification mail so the demo account can be verified in-process.
	outbox := &memory.Outbox{}
	auth := application.NewAuthService(users, helpers.NewJWTManager(cfg.JWTSecret, time.Hour),
		memory.NewRevocationStore(), outbox, logger, application.AuthOptions{
			Brand:          templates.Brand{AppName: cfg.AppName},
			VerifyEmailURL: cfg.VerifyEmailURL,
		})

	email := "demo@notekeeper.local"
	password := "password123"
	switch err := auth.Signup(ctx, email, password); {
	case errors.Is(err, application.ErrConflict):
		fmt.Printf("user %s already exists; adding notes only\n", email)
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	default:
		if err := auth.VerifyEmail(ctx, outbox.LastToken(templates.VerifyEmail)); err != nil {
			log.Fatalf("failed to verify seeded user: %v", err)
		}
	}

	sess, err := auth.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("failed to log in as seeded user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", sess.User.ID, email, password)

	svc := application.NewNoteService(notes, nil, nil, logger)
	for _, in := range []application.NoteInput{
		{Title: "Welcome to Notekeeper", Content: "Pin notes you use often. Pinned notes stay on top.", Pinned: true},
		{Title: "Groceries", Content: "milk\neggs\nbread", Color: "#f6d365"},
		{Title: "Ideas", Content: "Search matches note titles, case-insensitively."},
	} {
		n, err := svc.Create(ctx, sess.User.ID, in)
		if err != nil {
			log.Fatalf("failed to seed note %q: %v", in.Title, err)
		}
		fmt.Printf("seeded note: id=%s title=%q color=%s\n", n.ID, n.Title, n.Color)
	}
}
