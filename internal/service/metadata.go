package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/user/cinelist/internal/model"
	"gorm.io/datatypes"
)

// MetadataProvider 第三方元数据服务
type MetadataProvider interface {
	Trending(ctx context.Context, mediaType string, page int) ([]MetadataItem, error)
	Search(ctx context.Context, query string, filters SearchFilters) ([]MetadataItem, error)
	Details(ctx context.Context, mediaType string, tmdbID int) (*MetadataItem, error)
}

// SearchFilters 搜索条件
type SearchFilters struct {
	Page     int
	Language string
	Genre    int
	Year     int
}

// Genre 类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MetadataItem TMDB 条目，字段沿用 TMDB 命名
type MetadataItem struct {
	ID           int             `json:"id"`
	MediaType    string          `json:"media_type,omitempty"`
	Title        string          `json:"title,omitempty"`
	Name         string          `json:"name,omitempty"`
	Overview     string          `json:"overview"`
	PosterPath   string          `json:"poster_path"`
	BackdropPath string          `json:"backdrop_path"`
	ReleaseDate  string          `json:"release_date,omitempty"`
	FirstAirDate string          `json:"first_air_date,omitempty"`
	VoteAverage  float64         `json:"vote_average"`
	Popularity   float64         `json:"popularity"`
	GenreIDs     []int           `json:"genre_ids,omitempty"`
	Genres       []Genre         `json:"genres,omitempty"`
	Raw          json.RawMessage `json:"-"`
}

// DisplayTitle 电影取 title，剧集取 name
func (m *MetadataItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// Date 电影取上映日期，剧集取首播日期
func (m *MetadataItem) Date() string {
	if m.ReleaseDate != "" {
		return m.ReleaseDate
	}
	return m.FirstAirDate
}

// GenreList 列表接口给 genre_ids，详情接口给 genres
func (m *MetadataItem) GenreList() []int {
	if len(m.GenreIDs) > 0 {
		return m.GenreIDs
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func (m *MetadataItem) hasGenre(id int) bool {
	for _, g := range m.GenreList() {
		if g == id {
			return true
		}
	}
	return false
}

// BuildContent 将 TMDB 详情映射为本地内容记录
func BuildContent(item *MetadataItem, mediaType string, addedBy *int) *model.Content {
	content := &model.Content{
		TMDBID:       item.ID,
		MediaType:    mediaType,
		Title:        item.DisplayTitle(),
		Overview:     item.Overview,
		PosterPath:   item.PosterPath,
		BackdropPath: item.BackdropPath,
		ReleaseDate:  item.Date(),
		VoteAverage:  item.VoteAverage,
		Popularity:   item.Popularity,
		GenreIDs:     datatypes.JSONSlice[int](item.GenreList()),
		AddedBy:      addedBy,
		AddedAt:      time.Now(),
	}
	if len(item.Raw) > 0 {
		content.AdditionalData = datatypes.JSON(item.Raw)
	}
	return content
}
