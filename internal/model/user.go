package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Username     string    `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Phone        *string   `json:"phone,omitempty" gorm:"size:32;uniqueIndex:idx_users_phone,where:phone IS NOT NULL"` // 未填写时为 NULL，NULL 之间不冲突
	PasswordHash string    `json:"-" gorm:"not null"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Username string
}

// SessionContext 单次请求的会话上下文，由认证中间件构造后显式传递
type SessionContext struct {
	UserID          int
	ActiveProfileID int // 0 表示尚未选择档案
}

// HasActiveProfile 是否已选择档案
func (s *SessionContext) HasActiveProfile() bool {
	return s != nil && s.ActiveProfileID > 0
}
