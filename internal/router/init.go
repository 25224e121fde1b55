package router

import (
	"time"

	"github.com/oksasatya/notekeeper/internal/application"
	"github.com/oksasatya/notekeeper/internal/container"
	"github.com/oksasatya/notekeeper/internal/domain/repository"
	"github.com/oksasatya/notekeeper/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/notekeeper/internal/infrastructure/mongo"
	pginfra "github.com/oksasatya/notekeeper/internal/infrastructure/postgres"
	"github.com/oksasatya/notekeeper/internal/infrastructure/search"
	"github.com/oksasatya/notekeeper/internal/infrastructure/session"
	"github.com/oksasatya/notekeeper/internal/infrastructure/storage"
	handlers "github.com/oksasatya/notekeeper/internal/interface/http"
	"github.com/oksasatya/notekeeper/internal/interface/middleware"
	"github.com/oksasatya/notekeeper/internal/router/modules"
	"github.com/oksasatya/notekeeper/pkg/mailer"
	"github.com/oksasatya/notekeeper/pkg/mailer/templates"
)

type Stores struct {
	Users repository.UserRepository
	Notes repository.NoteRepository
}

// BuildStores picks the repositories for STORE_DRIVER.
func BuildStores() Stores {
	switch container.GetConfig().StoreDriver {
	case "mongo":
		db := container.GetMongo()
		return Stores{Users: mongoinfra.NewUserRepository(db), Notes: mongoinfra.NewNoteRepository(db)}
	case "memory":
		return Stores{Users: memory.NewUserRepository(), Notes: memory.NewNoteRepository()}
	default:
		pool := container.GetPGPool()
		return Stores{Users: pginfra.NewUserRepository(pool), Notes: pginfra.NewNoteRepository(pool)}
	}
}

func buildRevocations() application.RevocationStore {
	if rdb := container.GetRedis(); rdb != nil {
		return session.NewRevocationStore(rdb)
	}
	return memory.NewRevocationStore()
}

func buildMailSender() mailer.Sender {
	if s := container.GetMailSender(); s != nil {
		return s
	}
	return mailer.LogSender{Logger: container.GetLogger()}
}

func buildNoteIndex() application.NoteIndexer {
	es := container.GetES()
	if es == nil {
		return nil
	}
	return search.NewNoteIndex(es, container.GetConfig().ESNotesIndex, container.GetLogger())
}

func buildArchiver() application.NoteArchiver {
	cfg := container.GetConfig()
	if container.GetGCS() == nil || cfg.GCSBucket == "" {
		return nil
	}
	return storage.NewArchiver(container.GetGCS(), cfg.GCSBucket, cfg.GCSSignedURLTTL)
}

func buildAuthService(users repository.UserRepository) *application.AuthService {
	cfg := container.GetConfig()
	return application.NewAuthService(
		users,
		container.GetJWT(),
		buildRevocations(),
		buildMailSender(),
		container.GetLogger(),
		application.AuthOptions{
			Brand: templates.Brand{
				AppName:        cfg.AppName,
				CompanyName:    cfg.CompanyName,
				CompanyAddress: cfg.CompanyAddress,
				LogoURL:        cfg.LogoURL,
				SupportURL:     cfg.SupportURL,
				PrivacyURL:     cfg.PrivacyURL,
			},
			VerifyEmailURL:   cfg.VerifyEmailURL,
			ResetPasswordURL: cfg.ResetPasswordURL,
			VerifyTTL:        cfg.VerifyTokenTTL,
			ResetTTL:         cfg.ResetTokenTTL,
			RequireVerified:  cfg.RequireVerified,
		},
	)
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry, stores Stores) {
	logger := container.GetLogger()
	authSvc := buildAuthService(stores.Users)
	noteSvc := application.NewNoteService(stores.Notes, buildNoteIndex(), buildArchiver(), logger)

	// coarse per-IP ceiling for all of /api; probes and internal callers are exempt
	r.Use(middleware.RateLimit(container.GetRedis(), 600, time.Minute, middleware.KeyByIP(),
		middleware.AnyAllow(middleware.AllowPaths("/api/health"), middleware.AllowPrivateIP())))
	r.Engine.GET("/", handlers.Health)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), container.GetJWT(), authSvc.Revocations))
	r.Add(modules.NewNoteModule(handlers.NewNoteHandler(noteSvc, logger), container.GetJWT(), authSvc.Revocations))
	if cfg := container.GetConfig(); cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetricsRegistry()))
	}
}
