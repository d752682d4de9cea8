package model

import (
	"time"

	"gorm.io/datatypes"
)

// 媒体类型
const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// ValidMediaType 是否为支持的媒体类型
func ValidMediaType(mediaType string) bool {
	return mediaType == MediaTypeMovie || mediaType == MediaTypeTV
}

// Content 本地内容目录，首次被引用时从 TMDB 拉取详情写入
type Content struct {
	ID             int                      `json:"id" gorm:"primaryKey"`
	TMDBID         int                      `json:"tmdbId" gorm:"column:tmdb_id;not null;uniqueIndex:idx_contents_tmdb_type"`
	MediaType      string                   `json:"type" gorm:"column:media_type;size:10;not null;uniqueIndex:idx_contents_tmdb_type"`
	Title          string                   `json:"title" gorm:"size:500;not null"`
	Overview       string                   `json:"overview" gorm:"type:text"`
	PosterPath     string                   `json:"posterPath" gorm:"size:255"`
	BackdropPath   string                   `json:"backdropPath" gorm:"size:255"`
	ReleaseDate    string                   `json:"releaseDate" gorm:"size:20"`
	VoteAverage    float64                  `json:"voteAverage" gorm:"not null;default:0"`
	Popularity     float64                  `json:"popularity" gorm:"not null;default:0"`
	GenreIDs       datatypes.JSONSlice[int] `json:"genreIds" gorm:"column:genre_ids"`
	AdditionalData datatypes.JSON           `json:"additionalData,omitempty" gorm:"column:additional_data"`
	AddedBy        *int                     `json:"addedBy,omitempty"`
	AddedAt        time.Time                `json:"addedAt"`
}
