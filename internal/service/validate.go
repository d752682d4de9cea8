package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user/cinelist/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误里使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct 校验结构体，返回第一个出错字段的 ValidationError
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return invalid(fe.Field(), describe(fe))
	}
	return err
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("长度不能少于 %s", fe.Param())
		}
		return fmt.Sprintf("不能小于 %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("长度不能超过 %s", fe.Param())
		}
		return fmt.Sprintf("不能大于 %s", fe.Param())
	case "oneof":
		return "取值必须是 " + strings.ReplaceAll(fe.Param(), " ", "/") + " 之一"
	case "gt":
		return fmt.Sprintf("必须大于 %s", fe.Param())
	case "alphanum":
		return "只能包含字母和数字"
	}
	return "格式不正确"
}

// ParseRating 解析评分，接受整数或整数字符串，范围 1..5
func ParseRating(v interface{}) (int, error) {
	var n int
	switch r := v.(type) {
	case float64:
		if r != math.Trunc(r) {
			return 0, invalid("rating", "评分必须为整数")
		}
		n = int(r)
	case int:
		n = r
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return 0, invalid("rating", "评分必须为 1 到 5 的整数")
		}
		n = parsed
	case nil:
		return 0, invalid("rating", "不能为空")
	default:
		return 0, invalid("rating", "评分必须为 1 到 5 的整数")
	}
	if n < model.MinRating || n > model.MaxRating {
		return 0, invalid("rating", "评分必须为 1 到 5 的整数")
	}
	return n, nil
}

func validMediaType(mediaType string) error {
	if !model.ValidMediaType(mediaType) {
		return invalid("type", "媒体类型必须是 movie 或 tv")
	}
	return nil
}
