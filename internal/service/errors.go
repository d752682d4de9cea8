package service

import (
	"errors"
	"fmt"
)

// 业务错误类别，handler 层据此映射 HTTP 状态码
var (
	ErrValidation         = errors.New("参数校验失败")
	ErrDuplicate          = errors.New("资源已存在")
	ErrUnauthenticated    = errors.New("未登录")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrForbidden          = errors.New("无权访问")
	ErrNotFound           = errors.New("资源不存在")
	ErrNoActiveProfile    = errors.New("尚未选择档案")
	ErrUpstream           = errors.New("元数据服务暂不可用")
)

// ValidationError 指明出错字段的校验错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateError 资源重复，ExistingID 为已存在记录的 ID（未知时为 0）
type DuplicateError struct {
	Resource   string
	Field      string
	ExistingID int
}

func (e *DuplicateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s的%s已存在", e.Resource, e.Field)
	}
	return e.Resource + "已存在"
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// NotFoundError 资源不存在
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + "不存在"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// UpstreamError 元数据服务调用失败
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("TMDB %s 失败: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}
