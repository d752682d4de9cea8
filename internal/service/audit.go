package service

import (
	"context"
	"fmt"

	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
)

// AuditService 审计日志，写入失败只记日志，不影响主流程
type AuditService struct {
	logs *repository.LogRepository
	log  *logger.Logger
}

func NewAuditService(logs *repository.LogRepository, log *logger.Logger) *AuditService {
	return &AuditService{logs: logs, log: log}
}

// Record 追加一条审计日志，userID 为 0 表示系统动作
func (s *AuditService) Record(ctx context.Context, action string, userID int, format string, args ...interface{}) {
	entry := &model.LogEntry{
		Action:  action,
		Details: fmt.Sprintf(format, args...),
	}
	if userID > 0 {
		entry.UserID = &userID
	}
	// 主操作已经落库，客户端断开也要写完日志
	if err := s.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Error("audit log write failed", "action", action, "user_id", userID, "error", err)
	}
}

// Query 分页查询，最新的在前
func (s *AuditService) Query(ctx context.Context, limit, offset int) ([]*model.LogEntry, int64, error) {
	entries, err := s.logs.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.logs.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
