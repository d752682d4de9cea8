package service

import (
	"context"
	"errors"

	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
)

// WatchlistInput 加入片单参数
type WatchlistInput struct {
	ProfileID int    `json:"profileId" validate:"gt=0"`
	TMDBID    int    `json:"tmdbId" validate:"gt=0"`
	MediaType string `json:"type" validate:"required,oneof=movie tv"`
}

// WatchlistService 档案片单
type WatchlistService struct {
	entries  *repository.WatchlistRepository
	profiles *ProfileService
	catalog  *CatalogService
	audit    *AuditService
}

func NewWatchlistService(entries *repository.WatchlistRepository, profiles *ProfileService, catalog *CatalogService, audit *AuditService) *WatchlistService {
	return &WatchlistService{entries: entries, profiles: profiles, catalog: catalog, audit: audit}
}

// IsMember 检查内容是否在档案片单中
func (s *WatchlistService) IsMember(ctx context.Context, userID, profileID, tmdbID int) (bool, error) {
	if _, err := s.profiles.Authorize(ctx, userID, profileID); err != nil {
		return false, err
	}
	return s.entries.Exists(ctx, profileID, tmdbID)
}

// Add 加入片单，已存在时返回 DuplicateError
func (s *WatchlistService) Add(ctx context.Context, userID int, in WatchlistInput) (*model.WatchlistEntry, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	profile, err := s.profiles.Authorize(ctx, userID, in.ProfileID)
	if err != nil {
		return nil, err
	}

	exists, err := s.entries.Exists(ctx, in.ProfileID, in.TMDBID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &DuplicateError{Resource: "片单条目"}
	}

	entry := &model.WatchlistEntry{
		ProfileID: in.ProfileID,
		TMDBID:    in.TMDBID,
		MediaType: in.MediaType,
	}
	if err := s.entries.Add(ctx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, &DuplicateError{Resource: "片单条目"}
		}
		return nil, err
	}

	s.audit.Record(ctx, model.ActionMyListAdded, userID, "Profile %s added content %d to their list", profile.Name, in.TMDBID)
	return entry, nil
}

// Remove 移出片单，不在片单中时返回 ErrNotFound
func (s *WatchlistService) Remove(ctx context.Context, userID, profileID, tmdbID int) error {
	profile, err := s.profiles.Authorize(ctx, userID, profileID)
	if err != nil {
		return err
	}
	removed, err := s.entries.Remove(ctx, profileID, tmdbID)
	if err != nil {
		return err
	}
	if !removed {
		return notFound("片单条目")
	}
	s.audit.Record(ctx, model.ActionMyListRemoved, userID, "Profile %s removed content %d from their list", profile.Name, tmdbID)
	return nil
}

// List 档案片单，附带已缓存的内容信息
func (s *WatchlistService) List(ctx context.Context, userID, profileID, limit, offset int) ([]*model.WatchlistEntry, error) {
	if _, err := s.profiles.Authorize(ctx, userID, profileID); err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByProfile(ctx, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	s.catalog.AttachContent(ctx, entries)
	return entries, nil
}

// ListActive 当前档案的片单；未选择或档案失效时返回空列表
func (s *WatchlistService) ListActive(ctx context.Context, sc *model.SessionContext, limit, offset int) ([]*model.WatchlistEntry, error) {
	profile, err := s.profiles.GetActive(ctx, sc)
	if err != nil {
		if errors.Is(err, ErrNoActiveProfile) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) {
			return []*model.WatchlistEntry{}, nil
		}
		return nil, err
	}
	return s.List(ctx, sc.UserID, profile.ID, limit, offset)
}
