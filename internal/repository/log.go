package repository

import (
	"context"
	"time"

	"github.com/user/cinelist/internal/model"
	"gorm.io/gorm"
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Create 追加一条审计日志
func (r *LogRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// List 分页获取审计日志，最新的在前
func (r *LogRepository) List(ctx context.Context, limit, offset int) ([]*model.LogEntry, error) {
	entries := []*model.LogEntry{}
	err := r.db.WithContext(ctx).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// Count 获取审计日志总数
func (r *LogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LogEntry{}).Count(&count).Error
	return count, err
}
