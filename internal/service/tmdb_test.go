package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/user/cinelist/internal/config"
	"github.com/user/cinelist/internal/logger"
)

func newTMDBServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/movie/550":
			w.Write([]byte(`{"id":550,"title":"Fight Club","release_date":"1999-10-15","vote_average":8.4,"popularity":61.2,"poster_path":"/p.jpg","genres":[{"id":18,"name":"Drama"}]}`))
		case "/tv/1399":
			w.Write([]byte(`{"id":1399,"name":"Game of Thrones","first_air_date":"2011-04-17","poster_path":null,"genres":[{"id":10765,"name":"Sci-Fi"}]}`))
		case "/movie/500":
			w.WriteHeader(http.StatusInternalServerError)
		case "/search/multi":
			if r.URL.Query().Get("query") != "fight" {
				t.Errorf("unexpected query %q", r.URL.RawQuery)
			}
			w.Write([]byte(`{"page":1,"results":[
				{"id":550,"media_type":"movie","title":"Fight Club","release_date":"1999-10-15","genre_ids":[18]},
				{"id":7,"media_type":"person","name":"Somebody"},
				{"id":9,"media_type":"tv","name":"Fight Show","first_air_date":"2005-01-01","genre_ids":[35]}
			]}`))
		case "/discover/movie":
			if r.URL.Query().Get("with_genres") != "18" {
				t.Errorf("discover without genre: %q", r.URL.RawQuery)
			}
			w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Low","popularity":1}]}`))
		case "/discover/tv":
			w.Write([]byte(`{"page":1,"results":[{"id":2,"name":"High","popularity":50}]}`))
		case "/trending/movie/week":
			w.Write([]byte(`{"page":1,"results":[{"id":550,"title":"Fight Club"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
		}
	}))
}

func newTestTMDB(t *testing.T, baseURL string) *TMDBService {
	t.Helper()
	cfg := &config.Config{
		TMDBToken:       "test-token",
		TMDBBaseURL:     baseURL,
		TMDBLanguage:    "en-US",
		TMDBRatePerSec:  1000,
		TMDBBreakerTrip: 3,
	}
	return NewTMDBService(cfg, nil, logger.Nop())
}

func TestTMDBDetailsMapping(t *testing.T) {
	var hits int32
	srv := newTMDBServer(t, &hits)
	defer srv.Close()
	client := newTestTMDB(t, srv.URL)
	ctx := context.Background()

	movie, err := client.Details(ctx, "movie", 550)
	if err != nil {
		t.Fatalf("movie details: %v", err)
	}
	content := BuildContent(movie, "movie", nil)
	if content.Title != "Fight Club" || content.ReleaseDate != "1999-10-15" || content.PosterPath != "/p.jpg" {
		t.Fatalf("unexpected movie mapping %+v", content)
	}
	if len(content.GenreIDs) != 1 || content.GenreIDs[0] != 18 {
		t.Fatalf("genres should map to ids: %v", content.GenreIDs)
	}
	if !strings.Contains(string(content.AdditionalData), `"Fight Club"`) {
		t.Fatalf("raw payload should be kept: %s", content.AdditionalData)
	}

	show, err := client.Details(ctx, "tv", 1399)
	if err != nil {
		t.Fatalf("tv details: %v", err)
	}
	sc := BuildContent(show, "tv", nil)
	if sc.Title != "Game of Thrones" || sc.ReleaseDate != "2011-04-17" || sc.PosterPath != "" || sc.VoteAverage != 0 {
		t.Fatalf("unexpected tv mapping %+v", sc)
	}
}

func TestTMDBErrors(t *testing.T) {
	var hits int32
	srv := newTMDBServer(t, &hits)
	defer srv.Close()
	client := newTestTMDB(t, srv.URL)
	ctx := context.Background()

	if _, err := client.Details(ctx, "movie", 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 should map to not found, got %v", err)
	}
	_, err := client.Details(ctx, "movie", 500)
	if !errors.Is(err, ErrUpstream) || errors.Is(err, ErrNotFound) {
		t.Fatalf("500 should map to upstream error, got %v", err)
	}
}

func TestTMDBBreakerOpensAfterFailures(t *testing.T) {
	var hits int32
	srv := newTMDBServer(t, &hits)
	defer srv.Close()
	client := newTestTMDB(t, srv.URL)
	ctx := context.Background()

	// 404 不计入失败
	for i := 0; i < 5; i++ {
		client.Details(ctx, "movie", 404)
	}
	if _, err := client.Details(ctx, "movie", 550); err != nil {
		t.Fatalf("not-found responses must not trip the breaker: %v", err)
	}

	for i := 0; i < 3; i++ {
		client.Details(ctx, "movie", 500)
	}
	before := atomic.LoadInt32(&hits)
	if _, err := client.Details(ctx, "movie", 550); !errors.Is(err, ErrUpstream) {
		t.Fatalf("open breaker should fail fast with upstream error, got %v", err)
	}
	if atomic.LoadInt32(&hits) != before {
		t.Fatalf("open breaker must not reach the server")
	}
}

func TestTMDBSearchMultiFiltersPeople(t *testing.T) {
	var hits int32
	srv := newTMDBServer(t, &hits)
	defer srv.Close()
	client := newTestTMDB(t, srv.URL)
	ctx := context.Background()

	items, err := client.Search(ctx, "fight", SearchFilters{Page: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("person results should be dropped, got %d", len(items))
	}

	byYear, err := client.Search(ctx, "fight", SearchFilters{Page: 1, Year: 1999})
	if err != nil || len(byYear) != 1 || byYear[0].ID != 550 {
		t.Fatalf("year filter: %+v %v", byYear, err)
	}

	before := atomic.LoadInt32(&hits)
	if _, err := client.Search(ctx, "fight", SearchFilters{Page: 1}); err != nil {
		t.Fatalf("cached search: %v", err)
	}
	if atomic.LoadInt32(&hits) != before {
		t.Fatalf("repeated search should be served from cache")
	}
}

func TestTMDBDiscoverByGenre(t *testing.T) {
	var hits int32
	srv := newTMDBServer(t, &hits)
	defer srv.Close()
	client := newTestTMDB(t, srv.URL)

	items, err := client.Search(context.Background(), "", SearchFilters{Genre: 18})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(items) != 2 || items[0].DisplayTitle() != "High" || items[0].MediaType != "tv" || items[1].MediaType != "movie" {
		t.Fatalf("discover results should merge and sort by popularity: %+v", items)
	}
}

func TestTMDBTrendingSetsMediaType(t *testing.T) {
	var hits int32
	srv := newTMDBServer(t, &hits)
	defer srv.Close()
	client := newTestTMDB(t, srv.URL)

	items, err := client.Trending(context.Background(), "movie", 1)
	if err != nil || len(items) != 1 || items[0].MediaType != "movie" {
		t.Fatalf("trending: %+v %v", items, err)
	}
}
