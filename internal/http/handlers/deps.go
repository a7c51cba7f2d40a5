package handlers

import (
	"antiquites/internal/config"
	"antiquites/internal/events"
	"antiquites/internal/lifecycle"
	"antiquites/internal/metrics"
	"antiquites/internal/repos"
	"antiquites/internal/services"
	"antiquites/internal/storage"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Deps struct {
	AuthSvc *services.AuthService
	Metrics *metrics.Metrics

	AuthHandler    *AuthHandler
	ListingHandler *ListingHandler
	SearchHandler  *SearchHandler
	AdminHandler   *AdminHandler
	MediaHandler   *MediaHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, store storage.Store, pub events.Publisher, m *metrics.Metrics, logger *zap.Logger) *Deps {
	userRepo := repos.NewUserRepo(db)
	annRepo := repos.NewAnnouncementRepo(db)

	authSvc := &services.AuthService{Users: userRepo}
	listingSvc := services.NewListingService(annRepo, pub, m, logger.Named("listing"))
	modSvc := services.NewModerationService(annRepo, userRepo, store,
		lifecycle.Machine{Strict: cfg.StrictModeration}, pub, m, logger.Named("moderation"))

	return &Deps{
		AuthSvc: authSvc,
		Metrics: m,

		AuthHandler:    &AuthHandler{Auth: authSvc, SecureCookie: cfg.CookieSecure},
		ListingHandler: &ListingHandler{Listings: listingSvc, Uploads: storage.NewUploader(store, logger.Named("upload"))},
		SearchHandler:  &SearchHandler{Listings: listingSvc},
		AdminHandler:   &AdminHandler{Moderation: modSvc},
		MediaHandler:   &MediaHandler{Store: store},
	}
}
