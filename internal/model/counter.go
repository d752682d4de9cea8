package model

// Counter 自增序列，用于分配用户和档案的数字 ID
type Counter struct {
	Name string `gorm:"primaryKey;size:32"`
	Seq  int64  `gorm:"not null;default:0"`
}

// 序列名
const (
	CounterUserID    = "user_id"
	CounterProfileID = "profile_id"
)
