package model

import "time"

// WatchlistEntry 档案的"我的片单"条目
type WatchlistEntry struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	ProfileID int       `json:"profileId" gorm:"not null;uniqueIndex:idx_watchlist_profile_tmdb"`
	TMDBID    int       `json:"tmdbId" gorm:"column:tmdb_id;not null;uniqueIndex:idx_watchlist_profile_tmdb"`
	MediaType string    `json:"type" gorm:"column:media_type;size:10;not null"`
	AddedAt   time.Time `json:"addedAt"`
	Content   *Content  `json:"content,omitempty" gorm:"-"` // 列表查询时填充
}

// TableName 指定表名
func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}
