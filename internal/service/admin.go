package service

import (
	"context"

	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
	"golang.org/x/sync/errgroup"
)

// RecentActivityLimit 后台首页展示的动态条数
const RecentActivityLimit = 5

// AdminService 管理后台统计
type AdminService struct {
	repos *repository.Repositories
}

func NewAdminService(repos *repository.Repositories) *AdminService {
	return &AdminService{repos: repos}
}

// Stats 各实体数量与最近动态
func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	stats := &model.AdminStats{}
	var recent []*model.LogEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = s.repos.User.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProfiles, err = s.repos.Profile.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalContent, err = s.repos.Content.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalReviews, err = s.repos.Review.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalMyList, err = s.repos.Watchlist.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repos.Log.List(gctx, RecentActivityLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	activity, err := s.withUsernames(ctx, recent)
	if err != nil {
		return nil, err
	}
	stats.RecentActivity = activity
	return stats, nil
}

// withUsernames 批量查询用户名；没有操作用户的记为 System
func (s *AdminService) withUsernames(ctx context.Context, entries []*model.LogEntry) ([]model.ActivityEntry, error) {
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.UserID != nil {
			ids = append(ids, *e.UserID)
		}
	}
	users, err := s.repos.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]model.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		name := "System"
		if e.UserID != nil {
			name = "Unknown"
			if u, ok := users[*e.UserID]; ok {
				name = u.Username
			}
		}
		out = append(out, model.ActivityEntry{LogEntry: *e, Username: name})
	}
	return out, nil
}
