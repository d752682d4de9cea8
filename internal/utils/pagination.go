package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxPageSize 单页条数上限
const MaxPageSize = 100

// Pagination 分页参数
type Pagination struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// ParsePagination 解析 page/limit 查询参数，缺失或非法时回落到默认值
func ParsePagination(c *gin.Context, defaultLimit int) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}
