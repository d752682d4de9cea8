package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestParsePaginationDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
		wantOff   int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=abc&limit=-1", 1, 20, 0},
		{"?limit=1000", 1, MaxPageSize, 0},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/x"+tc.query, nil)
		p := ParsePagination(c, 20)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit || p.Offset != tc.wantOff {
			t.Errorf("%q: got %+v", tc.query, p)
		}
	}
}

func TestFlexIntAcceptsNumbersAndStrings(t *testing.T) {
	var body struct {
		A FlexInt `json:"a"`
		B FlexInt `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a": 550, "b": "42"}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.A.Int() != 550 || body.B.Int() != 42 {
		t.Fatalf("got %d %d", body.A, body.B)
	}
	if err := json.Unmarshal([]byte(`{"a": "abc"}`), &body); err == nil {
		t.Fatalf("expected error for non-numeric string")
	}
}

func TestLRUCacheExpires(t *testing.T) {
	c := NewLRUCache[string](2, 20*time.Millisecond)
	c.Set("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed, len=%d", c.Len())
	}
}

func TestCacheWithoutInitMisses(t *testing.T) {
	saved := Cache
	Cache = nil
	defer func() { Cache = saved }()

	CacheSet("k", 1, time.Minute)
	if _, ok := CacheGet("k"); ok {
		t.Fatalf("uninitialised cache should miss")
	}
}
