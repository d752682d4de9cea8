package model

import "time"

// 评分范围
const (
	MinRating     = 1
	MaxRating     = 5
	MaxReviewBody = 500
)

// Review 档案对某个内容的评分与短评，每个档案对同一内容只能有一条
type Review struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	ProfileID int       `json:"profileId" gorm:"not null;uniqueIndex:idx_reviews_profile_tmdb"`
	TMDBID    int       `json:"tmdbId" gorm:"column:tmdb_id;not null;uniqueIndex:idx_reviews_profile_tmdb;index:idx_reviews_tmdb"`
	MediaType string    `json:"type" gorm:"column:media_type;size:10;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Body      string    `json:"review" gorm:"type:text"`
	IsPublic  bool      `json:"isPublic" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Profile   *Profile  `json:"profile,omitempty" gorm:"foreignKey:ProfileID"`
}
