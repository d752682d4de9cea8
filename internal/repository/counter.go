package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type CounterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) *CounterRepository {
	return &CounterRepository{db: db}
}

// Next 原子递增并返回序列的下一个值，首次调用返回 1
func (r *CounterRepository) Next(ctx context.Context, name string) (int, error) {
	var seq int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, seq) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq`, name).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("分配序列 %s 失败: %w", name, err)
	}
	return int(seq), nil
}
