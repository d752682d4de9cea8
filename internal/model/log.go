package model

import "time"

// 审计动作
const (
	ActionUserRegistered  = "user_registered"
	ActionUserLogin       = "user_login"
	ActionUserAdminChange = "user_admin_changed"
	ActionProfileCreated  = "profile_created"
	ActionProfileUpdated  = "profile_updated"
	ActionProfileDeleted  = "profile_deleted"
	ActionProfileSelected = "profile_selected"
	ActionMyListAdded     = "mylist_added"
	ActionMyListRemoved   = "mylist_removed"
	ActionReviewCreated   = "review_created"
	ActionReviewUpdated   = "review_updated"
	ActionReviewDeleted   = "review_deleted"
	ActionContentAdded    = "content_added"
	ActionContentDeleted  = "content_deleted"
)

// LogEntry 审计日志，只追加
type LogEntry struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Action    string    `json:"action" gorm:"size:64;not null;index"`
	UserID    *int      `json:"userId" gorm:"index"`
	Details   string    `json:"details" gorm:"type:text"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
}

// TableName 指定表名
func (LogEntry) TableName() string {
	return "logs"
}

// ActivityEntry 管理后台展示的动态（附带用户名）
type ActivityEntry struct {
	LogEntry
	Username string `json:"username"`
}

// AdminStats 管理后台统计
type AdminStats struct {
	TotalUsers     int64           `json:"totalUsers"`
	TotalProfiles  int64           `json:"totalProfiles"`
	TotalContent   int64           `json:"totalContent"`
	TotalReviews   int64           `json:"totalReviews"`
	TotalMyList    int64           `json:"totalMyList"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
}
