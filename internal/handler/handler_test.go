package handler_test

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/handler"
	"github.com/user/cinelist/internal/logger"
	"github.com/user/cinelist/internal/model"
	"github.com/user/cinelist/internal/repository"
	"github.com/user/cinelist/internal/router"
	"github.com/user/cinelist/internal/service"
	"github.com/user/cinelist/internal/utils"
)

func init() {
	gob.Register(model.SessionUser{})
}

type stubProvider struct{}

func (stubProvider) Trending(ctx context.Context, mediaType string, page int) ([]service.MetadataItem, error) {
	return nil, nil
}

func (stubProvider) Search(ctx context.Context, query string, filters service.SearchFilters) ([]service.MetadataItem, error) {
	return nil, nil
}

func (stubProvider) Details(ctx context.Context, mediaType string, id int) (*service.MetadataItem, error) {
	switch {
	case mediaType == model.MediaTypeMovie && id == 550:
		return &service.MetadataItem{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15", Popularity: 60}, nil
	case mediaType == model.MediaTypeTV && id == 1:
		return nil, &service.UpstreamError{Op: "details", Err: errors.New("connection reset")}
	}
	return nil, service.ErrNotFound
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.Open("sqlite", filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Env:              "test",
		AppSecret:        "test-secret",
		ReviewVisibility: config.VisibilityProfile,
	}
	repos := repository.NewRepositories(db)
	h := handler.NewHandler(repos, stubProvider{}, cfg, logger.Nop())

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte(cfg.AppSecret))))
	router.RegisterRoutes(r, h, repos.User)
	return r
}

// client 模拟浏览器，保存最新的 Cookie
type client struct {
	t       *testing.T
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *client {
	return &client{t: t, r: r, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path string, body interface{}) (int, utils.Response) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}

	var resp utils.Response
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, resp
}

func (c *client) register(username string) int {
	c.t.Helper()
	code, resp := c.do(http.MethodPost, "/api/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	if code != http.StatusCreated {
		c.t.Fatalf("register %s: expected 201, got %d (%s)", username, code, resp.Message)
	}
	return int(dataMap(c.t, resp)["id"].(float64))
}

func (c *client) createProfile(name string) int {
	c.t.Helper()
	code, resp := c.do(http.MethodPost, "/api/profiles", gin.H{"name": name})
	if code != http.StatusCreated {
		c.t.Fatalf("create profile: expected 201, got %d (%s)", code, resp.Message)
	}
	return int(dataMap(c.t, resp)["id"].(float64))
}

func dataMap(t *testing.T, resp utils.Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected object data, got %T", resp.Data)
	}
	return m
}

func TestWatchlistScenario(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")
	profileID := c.createProfile("Kids")

	add := gin.H{"profileId": profileID, "tmdbId": 550, "type": "movie"}
	if code, resp := c.do(http.MethodPost, "/api/mylist", add); code != http.StatusCreated {
		t.Fatalf("first add: expected 201, got %d (%s)", code, resp.Message)
	}
	if code, _ := c.do(http.MethodPost, "/api/mylist", add); code != http.StatusBadRequest {
		t.Fatalf("second add: expected 400, got %d", code)
	}

	check := "/api/mylist/" + strconv.Itoa(profileID) + "/check/550"
	code, resp := c.do(http.MethodGet, check, nil)
	if code != http.StatusOK || dataMap(t, resp)["inList"] != true {
		t.Fatalf("check: got %d %+v", code, resp.Data)
	}

	remove := "/api/mylist/" + strconv.Itoa(profileID) + "/550"
	if code, _ := c.do(http.MethodDelete, remove, nil); code != http.StatusNoContent {
		t.Fatalf("first remove: expected 204, got %d", code)
	}
	if code, _ := c.do(http.MethodDelete, remove, nil); code != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", code)
	}
}

func TestStringIDsAccepted(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")
	profileID := c.createProfile("Main")

	code, resp := c.do(http.MethodPost, "/api/mylist", gin.H{
		"profileId": strconv.Itoa(profileID),
		"tmdbId":    "550",
		"type":      "movie",
	})
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", code, resp.Message)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	c := newClient(t, newTestServer(t))
	for _, path := range []string{"/api/profiles", "/api/mylist", "/api/user", "/api/content/movie/550"} {
		if code, _ := c.do(http.MethodGet, path, nil); code != http.StatusUnauthorized {
			t.Fatalf("GET %s: expected 401, got %d", path, code)
		}
	}
}

func TestCrossUserAccessForbidden(t *testing.T) {
	r := newTestServer(t)
	alice := newClient(t, r)
	alice.register("alice")
	profileID := alice.createProfile("Alice")

	bob := newClient(t, r)
	bob.register("bob")

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/profiles/" + strconv.Itoa(profileID)},
		{http.MethodDelete, "/api/profiles/" + strconv.Itoa(profileID)},
		{http.MethodGet, "/api/mylist/" + strconv.Itoa(profileID)},
	}
	for _, p := range paths {
		if code, _ := bob.do(p.method, p.path, nil); code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", p.method, p.path, code)
		}
	}
	if code, _ := bob.do(http.MethodGet, "/api/profiles/999", nil); code != http.StatusNotFound {
		t.Fatalf("missing profile: expected 404, got %d", code)
	}
}

func TestActiveProfileSelection(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")

	if code, _ := c.do(http.MethodGet, "/api/profiles/active", nil); code != http.StatusNotFound {
		t.Fatalf("no active profile: expected 404, got %d", code)
	}
	profileID := c.createProfile("Main")
	if code, resp := c.do(http.MethodPost, "/api/profiles/active", gin.H{"profileId": profileID}); code != http.StatusOK {
		t.Fatalf("set active: expected 200, got %d (%s)", code, resp.Message)
	}
	code, resp := c.do(http.MethodGet, "/api/profiles/active", nil)
	if code != http.StatusOK {
		t.Fatalf("get active: expected 200, got %d", code)
	}
	active := dataMap(t, resp)["activeProfile"].(map[string]interface{})
	if int(active["id"].(float64)) != profileID {
		t.Fatalf("unexpected active profile %v", active["id"])
	}

	if code, _ := c.do(http.MethodDelete, "/api/profiles/"+strconv.Itoa(profileID), nil); code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", code)
	}
	if code, _ := c.do(http.MethodGet, "/api/profiles/active", nil); code != http.StatusNotFound {
		t.Fatalf("deleted active profile: expected 404, got %d", code)
	}
}

func TestReviewValidationAndDuplicate(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")
	profileID := c.createProfile("Main")

	review := gin.H{"profileId": profileID, "tmdbId": 550, "type": "movie", "rating": 6, "review": "too high"}
	code, resp := c.do(http.MethodPost, "/api/reviews", review)
	if code != http.StatusBadRequest || dataMap(t, resp)["field"] != "rating" {
		t.Fatalf("rating 6: got %d %+v", code, resp.Data)
	}

	review["rating"] = "5"
	code, resp = c.do(http.MethodPost, "/api/reviews", review)
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", code, resp.Message)
	}
	created := dataMap(t, resp)
	if created["isPublic"] != true {
		t.Fatalf("reviews default to public, got %v", created["isPublic"])
	}

	code, resp = c.do(http.MethodPost, "/api/reviews", review)
	if code != http.StatusBadRequest {
		t.Fatalf("duplicate: expected 400, got %d", code)
	}
	if dataMap(t, resp)["existingId"] != created["id"] {
		t.Fatalf("duplicate should carry existing id %v, got %v", created["id"], resp.Data)
	}
}

func TestContentErrorsMapped(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")

	if code, _ := c.do(http.MethodGet, "/api/content/movie/550", nil); code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", code)
	}
	if code, _ := c.do(http.MethodGet, "/api/content/movie/404", nil); code != http.StatusNotFound {
		t.Fatalf("missing upstream: expected 404, got %d", code)
	}
	if code, _ := c.do(http.MethodGet, "/api/content/tv/1", nil); code != http.StatusBadGateway {
		t.Fatalf("upstream failure: expected 502, got %d", code)
	}
	if code, resp := c.do(http.MethodGet, "/api/content/book/1", nil); code != http.StatusBadRequest {
		t.Fatalf("bad media type: expected 400, got %d (%s)", code, resp.Message)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")
	if code, _ := c.do(http.MethodGet, "/api/admin/stats", nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", code)
	}
}

func TestContentReviewsPaginated(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.register("alice")
	profileID := c.createProfile("Main")

	review := gin.H{"profileId": profileID, "tmdbId": 550, "type": "movie", "rating": 4, "review": "great"}
	if code, resp := c.do(http.MethodPost, "/api/reviews", review); code != http.StatusCreated {
		t.Fatalf("create review: expected 201, got %d (%s)", code, resp.Message)
	}
	_, resp := c.do(http.MethodGet, "/api/content/movie/550", nil)
	contentID := strconv.Itoa(int(dataMap(t, resp)["id"].(float64)))

	code, resp := c.do(http.MethodGet, "/api/reviews/content/"+contentID+"?page=1&limit=1", nil)
	if list, ok := resp.Data.([]interface{}); code != http.StatusOK || !ok || len(list) != 1 {
		t.Fatalf("first page: got %d %+v", code, resp.Data)
	}
	code, resp = c.do(http.MethodGet, "/api/reviews/content/"+contentID+"?page=2&limit=1", nil)
	if list, ok := resp.Data.([]interface{}); code != http.StatusOK || !ok || len(list) != 0 {
		t.Fatalf("second page should be empty: got %d %+v", code, resp.Data)
	}
}
