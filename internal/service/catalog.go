package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ContentDetails TMDB 详情附带本地内容 ID
type ContentDetails struct {
	*MetadataItem
	ContentID int `json:"contentId"`
}

// CatalogService 内容目录：按需从 TMDB 物化，组合键 (tmdbId, type) 唯一
type CatalogService struct {
	contents *repository.ContentRepository
	provider MetadataProvider
	audit    *AuditService
	log      *logger.Logger
	group    singleflight.Group
}

func NewCatalogService(contents *repository.ContentRepository, provider MetadataProvider, audit *AuditService, log *logger.Logger) *CatalogService {
	return &CatalogService{contents: contents, provider: provider, audit: audit, log: log}
}

func validateKey(tmdbID int, mediaType string) error {
	if err := validMediaType(mediaType); err != nil {
		return err
	}
	if tmdbID <= 0 {
		return invalid("tmdbId", "必须为有效的 TMDB ID")
	}
	return nil
}

// Resolve 返回本地内容，不存在时拉取 TMDB 详情并写入
func (s *CatalogService) Resolve(ctx context.Context, tmdbID int, mediaType string) (*model.Content, error) {
	if err := validateKey(tmdbID, mediaType); err != nil {
		return nil, err
	}

	// 同一进程内相同内容只拉取一次；拉取不随发起者断开而取消，各调用方只等待自己的 ctx
	key := fmt.Sprintf("%s:%d", mediaType, tmdbID)
	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		existing, err := s.contents.FindByExternalID(flightCtx, tmdbID, mediaType)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
		item, err := s.provider.Details(flightCtx, mediaType, tmdbID)
		if err != nil {
			return nil, err
		}
		return s.store(flightCtx, item, tmdbID, mediaType)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Content), nil
	}
}

// store 写入内容；组合键冲突说明其他请求已写入，读取胜出者返回
func (s *CatalogService) store(ctx context.Context, item *MetadataItem, tmdbID int, mediaType string) (*model.Content, error) {
	content := BuildContent(item, mediaType, nil)
	content.TMDBID = tmdbID
	err := s.contents.Create(ctx, content)
	if err == nil {
		return content, nil
	}
	if !repository.IsUniqueViolation(err) {
		return nil, err
	}
	winner, ferr := s.contents.FindByExternalID(ctx, tmdbID, mediaType)
	if ferr != nil {
		return nil, ferr
	}
	if winner == nil {
		return nil, fmt.Errorf("内容 %s:%d 写入冲突后未找到: %w", mediaType, tmdbID, err)
	}
	return winner, nil
}

// Details 实时 TMDB 详情，同时保证本地目录中存在该内容
func (s *CatalogService) Details(ctx context.Context, tmdbID int, mediaType string) (*ContentDetails, error) {
	if err := validateKey(tmdbID, mediaType); err != nil {
		return nil, err
	}
	item, err := s.provider.Details(ctx, mediaType, tmdbID)
	if err != nil {
		return nil, err
	}
	content, err := s.contents.FindByExternalID(ctx, tmdbID, mediaType)
	if err != nil {
		return nil, err
	}
	if content == nil {
		if content, err = s.store(ctx, item, tmdbID, mediaType); err != nil {
			return nil, err
		}
	}
	return &ContentDetails{MetadataItem: item, ContentID: content.ID}, nil
}

// FindByID 按本地 ID 获取内容
func (s *CatalogService) FindByID(ctx context.Context, id int) (*model.Content, error) {
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, notFound("内容")
	}
	return content, nil
}

// FindByExternalID 按 (tmdbId, type) 获取内容，不触发拉取
func (s *CatalogService) FindByExternalID(ctx context.Context, tmdbID int, mediaType string) (*model.Content, error) {
	content, err := s.contents.FindByExternalID(ctx, tmdbID, mediaType)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, notFound("内容")
	}
	return content, nil
}

// Newest 热门电影和剧集合并后按日期倒序
func (s *CatalogService) Newest(ctx context.Context, limit int) ([]MetadataItem, error) {
	items, err := s.trendingBoth(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date() > items[j].Date()
	})
	return truncate(items, limit), nil
}

// Popular 热门电影和剧集合并后按热度倒序
func (s *CatalogService) Popular(ctx context.Context, limit int) ([]MetadataItem, error) {
	items, err := s.trendingBoth(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})
	return truncate(items, limit), nil
}

// Movies 热门电影
func (s *CatalogService) Movies(ctx context.Context, page, limit int) ([]MetadataItem, error) {
	items, err := s.provider.Trending(ctx, model.MediaTypeMovie, page)
	if err != nil {
		return nil, err
	}
	return truncate(items, limit), nil
}

// TVShows 热门剧集
func (s *CatalogService) TVShows(ctx context.Context, page, limit int) ([]MetadataItem, error) {
	items, err := s.provider.Trending(ctx, model.MediaTypeTV, page)
	if err != nil {
		return nil, err
	}
	return truncate(items, limit), nil
}

// Search 搜索；未指定类型筛选时关键词必填
func (s *CatalogService) Search(ctx context.Context, query string, filters SearchFilters) ([]MetadataItem, error) {
	if query == "" && filters.Genre <= 0 {
		return nil, invalid("q", "未按类型筛选时搜索关键词不能为空")
	}
	items, err := s.provider.Search(ctx, query, filters)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []MetadataItem{}
	}
	return items, nil
}

func (s *CatalogService) trendingBoth(ctx context.Context) ([]MetadataItem, error) {
	var movies, shows []MetadataItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = s.provider.Trending(gctx, model.MediaTypeMovie, 1)
		return err
	})
	g.Go(func() error {
		var err error
		shows, err = s.provider.Trending(gctx, model.MediaTypeTV, 1)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	items := make([]MetadataItem, 0, len(movies)+len(shows))
	items = append(items, movies...)
	return append(items, shows...), nil
}

// AdminAdd 管理员手动加入内容，已存在时返回 DuplicateError
func (s *CatalogService) AdminAdd(ctx context.Context, actorID, tmdbID int, mediaType string) (*model.Content, error) {
	if err := validateKey(tmdbID, mediaType); err != nil {
		return nil, err
	}
	existing, err := s.contents.FindByExternalID(ctx, tmdbID, mediaType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateError{Resource: "内容", ExistingID: existing.ID}
	}

	item, err := s.provider.Details(ctx, mediaType, tmdbID)
	if err != nil {
		return nil, err
	}
	content := BuildContent(item, mediaType, &actorID)
	content.TMDBID = tmdbID
	if err := s.contents.Create(ctx, content); err != nil {
		if repository.IsUniqueViolation(err) {
			dup := &DuplicateError{Resource: "内容"}
			if winner, ferr := s.contents.FindByExternalID(ctx, tmdbID, mediaType); ferr == nil && winner != nil {
				dup.ExistingID = winner.ID
			}
			return nil, dup
		}
		return nil, err
	}

	s.audit.Record(ctx, model.ActionContentAdded, actorID, "Admin added %s %q (TMDB ID: %d)", mediaType, content.Title, tmdbID)
	return content, nil
}

// AdminDelete 管理员删除内容
func (s *CatalogService) AdminDelete(ctx context.Context, actorID, id int) error {
	content, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.contents.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("内容")
	}
	s.audit.Record(ctx, model.ActionContentDeleted, actorID, "Admin deleted %s %q (TMDB ID: %d)", content.MediaType, content.Title, content.TMDBID)
	return nil
}

// AttachContent 为片单条目填充本地内容，查询失败只记日志
func (s *CatalogService) AttachContent(ctx context.Context, entries []*model.WatchlistEntry) {
	if len(entries) == 0 {
		return
	}
	ids := make([]int, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.TMDBID)
	}
	contents, err := s.contents.FindByExternalIDs(ctx, ids)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Warn("attach watchlist content failed", "error", err)
		}
		return
	}
	byKey := make(map[string]*model.Content, len(contents))
	for _, c := range contents {
		byKey[fmt.Sprintf("%s:%d", c.MediaType, c.TMDBID)] = c
	}
	for _, e := range entries {
		e.Content = byKey[fmt.Sprintf("%s:%d", e.MediaType, e.TMDBID)]
	}
}

func truncate(items []MetadataItem, limit int) []MetadataItem {
	if items == nil {
		return []MetadataItem{}
	}
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
