package repository

import (
	"context"
	"time"

	"github.com/user/cinelist/internal/model"
	"gorm.io/gorm"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 加入片单，重复时返回唯一约束错误
func (r *WatchlistRepository) Add(ctx context.Context, entry *model.WatchlistEntry) error {
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Remove 移出片单，返回是否有记录被删除
func (r *WatchlistRepository) Remove(ctx context.Context, profileID, tmdbID int) (bool, error) {
	result := r.db.WithContext(ctx).Where("profile_id = ? AND tmdb_id = ?", profileID, tmdbID).Delete(&model.WatchlistEntry{})
	return result.RowsAffected > 0, result.Error
}

// Exists 检查是否已在片单中
func (r *WatchlistRepository) Exists(ctx context.Context, profileID, tmdbID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchlistEntry{}).
		Where("profile_id = ? AND tmdb_id = ?", profileID, tmdbID).
		Count(&count).Error
	return count > 0, err
}

// ListByProfile 获取档案片单，最新加入的在前
func (r *WatchlistRepository) ListByProfile(ctx context.Context, profileID, limit, offset int) ([]*model.WatchlistEntry, error) {
	entries := []*model.WatchlistEntry{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("added_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// CountByProfile 统计档案片单数量
func (r *WatchlistRepository) CountByProfile(ctx context.Context, profileID int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchlistEntry{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count, err
}

// Count 获取片单条目总数
func (r *WatchlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchlistEntry{}).Count(&count).Error
	return count, err
}
