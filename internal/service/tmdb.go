package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/utils"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	trendingTTL     = 30 * time.Minute
	searchCacheSize = 1000
	detailsPrefix   = "tmdb:details:"
)

// TMDBService TMDB API 客户端：限流、熔断，列表走内存缓存，详情可选 Redis 缓存
type TMDBService struct {
	baseURL  string
	token    string
	language string
	cacheTTL time.Duration

	http    *utils.HTTPClient
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	redis   *redis.Client
	search  *utils.LRUCache[[]MetadataItem]
	log     *logger.Logger
}

// NewTMDBService rdb 可为 nil，此时详情不做缓存
func NewTMDBService(cfg *config.Config, rdb *redis.Client, log *logger.Logger) *TMDBService {
	ratePerSec := cfg.TMDBRatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 20
	}
	trip := cfg.TMDBBreakerTrip
	if trip == 0 {
		trip = 5
	}
	cacheTTL := cfg.TMDBCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = trendingTTL
	}

	s := &TMDBService{
		baseURL:  cfg.TMDBBaseURL,
		token:    cfg.TMDBToken,
		language: cfg.TMDBLanguage,
		cacheTTL: cacheTTL,
		http:     utils.NewHTTPClient(cfg.TMDBTimeout, "cinelist/1.0"),
		limiter:  rate.NewLimiter(rate.Limit(ratePerSec), int(ratePerSec)+1),
		redis:    rdb,
		search:   utils.NewLRUCache[[]MetadataItem](searchCacheSize, cacheTTL),
		log:      log,
	}
	s.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
		// 404 是正常结果，不计入失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
	return s
}

// Trending 本周热门，mediaType 为 movie/tv/all
func (s *TMDBService) Trending(ctx context.Context, mediaType string, page int) ([]MetadataItem, error) {
	if page < 1 {
		page = 1
	}
	cacheKey := fmt.Sprintf("tmdb:trending:%s:%d:%s", mediaType, page, s.language)
	if cached, ok := utils.CacheGet(cacheKey); ok {
		return cached.([]MetadataItem), nil
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	body, err := s.get(ctx, "trending", fmt.Sprintf("/trending/%s/week", mediaType), params)
	if err != nil {
		return nil, err
	}
	items, err := decodePage(body, mediaType)
	if err != nil {
		return nil, &UpstreamError{Op: "trending", Err: err}
	}
	utils.CacheSet(cacheKey, items, s.cacheTTL)
	return items, nil
}

// Search 关键词走 /search/multi，仅有类型筛选时走 /discover
func (s *TMDBService) Search(ctx context.Context, query string, filters SearchFilters) ([]MetadataItem, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	lang := filters.Language
	if lang == "" {
		lang = s.language
	}
	query = strings.TrimSpace(query)
	cacheKey := fmt.Sprintf("%s|%d|%s|%d|%d", strings.ToLower(query), filters.Page, lang, filters.Genre, filters.Year)
	if cached, ok := s.search.Get(cacheKey); ok {
		return cached, nil
	}

	var (
		items []MetadataItem
		err   error
	)
	if query == "" {
		items, err = s.discover(ctx, filters, lang)
	} else {
		items, err = s.searchMulti(ctx, query, filters, lang)
	}
	if err != nil {
		return nil, err
	}
	s.search.Set(cacheKey, items)
	return items, nil
}

func (s *TMDBService) searchMulti(ctx context.Context, query string, filters SearchFilters, lang string) ([]MetadataItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("language", lang)
	params.Set("include_adult", "false")
	body, err := s.get(ctx, "search", "/search/multi", params)
	if err != nil {
		return nil, err
	}
	all, err := decodePage(body, "")
	if err != nil {
		return nil, &UpstreamError{Op: "search", Err: err}
	}

	items := make([]MetadataItem, 0, len(all))
	for _, item := range all {
		// multi 搜索会混入人物结果
		if item.MediaType != "movie" && item.MediaType != "tv" {
			continue
		}
		if filters.Genre > 0 && !item.hasGenre(filters.Genre) {
			continue
		}
		if filters.Year > 0 && !strings.HasPrefix(item.Date(), strconv.Itoa(filters.Year)) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *TMDBService) discover(ctx context.Context, filters SearchFilters, lang string) ([]MetadataItem, error) {
	var movies, shows []MetadataItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		params := s.discoverParams(filters, lang, "primary_release_year")
		body, err := s.get(gctx, "discover", "/discover/movie", params)
		if err != nil {
			return err
		}
		movies, err = decodePage(body, "movie")
		return err
	})
	g.Go(func() error {
		params := s.discoverParams(filters, lang, "first_air_date_year")
		body, err := s.get(gctx, "discover", "/discover/tv", params)
		if err != nil {
			return err
		}
		shows, err = decodePage(body, "tv")
		return err
	})
	if err := g.Wait(); err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return nil, err
		}
		return nil, &UpstreamError{Op: "discover", Err: err}
	}

	items := append(movies, shows...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Popularity > items[j].Popularity
	})
	return items, nil
}

func (s *TMDBService) discoverParams(filters SearchFilters, lang, yearKey string) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(filters.Page))
	params.Set("language", lang)
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	if filters.Genre > 0 {
		params.Set("with_genres", strconv.Itoa(filters.Genre))
	}
	if filters.Year > 0 {
		params.Set(yearKey, strconv.Itoa(filters.Year))
	}
	return params
}

// Details 获取电影或剧集详情，TMDB 返回 404 时返回 ErrNotFound
func (s *TMDBService) Details(ctx context.Context, mediaType string, tmdbID int) (*MetadataItem, error) {
	cacheKey := fmt.Sprintf("%s%s:%d:%s", detailsPrefix, mediaType, tmdbID, s.language)
	if body := s.cachedDetails(ctx, cacheKey); body != nil {
		if item, err := decodeDetails(body, mediaType); err == nil {
			return item, nil
		}
	}

	body, err := s.get(ctx, "details", fmt.Sprintf("/%s/%d", mediaType, tmdbID), nil)
	if err != nil {
		return nil, err
	}
	item, err := decodeDetails(body, mediaType)
	if err != nil {
		return nil, &UpstreamError{Op: "details", Err: err}
	}
	if s.redis != nil {
		if err := s.redis.Set(ctx, cacheKey, body, s.cacheTTL).Err(); err != nil {
			s.log.Warn("tmdb details cache write failed", "key", cacheKey, "error", err)
		}
	}
	return item, nil
}

func (s *TMDBService) cachedDetails(ctx context.Context, key string) []byte {
	if s.redis == nil {
		return nil
	}
	body, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("tmdb details cache read failed", "key", key, "error", err)
		}
		return nil
	}
	return body
}

// get 经过限流和熔断发起请求
func (s *TMDBService) get(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if params == nil {
		params = url.Values{}
	}
	if params.Get("language") == "" {
		params.Set("language", s.language)
	}
	endpoint := s.baseURL + path + "?" + params.Encode()

	body, err := s.breaker.Execute(func() ([]byte, error) {
		status, body, err := s.http.Get(ctx, endpoint, map[string]string{
			"Authorization": "Bearer " + s.token,
		})
		if err != nil {
			return nil, err
		}
		switch {
		case status == http.StatusNotFound:
			return nil, notFound("内容")
		case status != http.StatusOK:
			return nil, fmt.Errorf("unexpected status %d", status)
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.log.Warn("tmdb request failed", "op", op, "path", path, "error", err)
		return nil, &UpstreamError{Op: op, Err: err}
	}
	return body, nil
}

func decodePage(body []byte, mediaType string) ([]MetadataItem, error) {
	var page struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	items := make([]MetadataItem, 0, len(page.Results))
	for _, raw := range page.Results {
		var item MetadataItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, err
		}
		if item.MediaType == "" && mediaType != "" && mediaType != "all" {
			item.MediaType = mediaType
		}
		item.Raw = raw
		items = append(items, item)
	}
	return items, nil
}

func decodeDetails(body []byte, mediaType string) (*MetadataItem, error) {
	var item MetadataItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, err
	}
	item.MediaType = mediaType
	item.Raw = json.RawMessage(body)
	return &item, nil
}
