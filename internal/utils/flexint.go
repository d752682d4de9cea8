package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt 同时接受 JSON 数字和数字字符串的整数
type FlexInt int

// UnmarshalJSON 实现 json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("无效的整数: %q", s)
		}
		*f = FlexInt(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("无效的整数: %s", data)
	}
	*f = FlexInt(n)
	return nil
}

// Int 转为 int
func (f FlexInt) Int() int {
	return int(f)
}
