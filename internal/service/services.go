package service

import (
	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/repository"
)

// Services 业务服务集合
type Services struct {
	Audit     *AuditService
	User      *UserService
	Profile   *ProfileService
	Catalog   *CatalogService
	Watchlist *WatchlistService
	Review    *ReviewService
	Admin     *AdminService
}

// NewServices 组装服务
func NewServices(repos *repository.Repositories, provider MetadataProvider, cfg *config.Config, log *logger.Logger) *Services {
	audit := NewAuditService(repos.Log, log)
	profiles := NewProfileService(repos.Profile, audit)
	catalog := NewCatalogService(repos.Content, provider, audit, log)
	return &Services{
		Audit:     audit,
		User:      NewUserService(repos.User, audit, cfg.AdminEmails),
		Profile:   profiles,
		Catalog:   catalog,
		Watchlist: NewWatchlistService(repos.Watchlist, profiles, catalog, audit),
		Review:    NewReviewService(repos.Review, repos.Profile, profiles, catalog, audit, cfg.ReviewVisibility),
		Admin:     NewAdminService(repos),
	}
}
