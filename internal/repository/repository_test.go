package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/user/cinelist/internal/model"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func TestCounterNextIsMonotonic(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	prev := 0
	for i := 0; i < 5; i++ {
		n, err := repos.Counter.Next(ctx, "test_seq")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n != prev+1 {
			t.Fatalf("expected %d, got %d", prev+1, n)
		}
		prev = n
	}

	other, err := repos.Counter.Next(ctx, "other_seq")
	if err != nil {
		t.Fatalf("next other: %v", err)
	}
	if other != 1 {
		t.Fatalf("independent sequence should start at 1, got %d", other)
	}
}

func TestUserCreateAssignsSequentialIDs(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	a := &model.User{Username: "alice", Email: "alice@example.com"}
	b := &model.User{Username: "bob", Email: "bob@example.com"}
	if err := repos.User.Create(ctx, a, "secret1"); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := repos.User.Create(ctx, b, "secret2"); err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", a.ID, b.ID)
	}
	if a.PasswordHash == "secret1" || !repos.User.CheckPassword(a, "secret1") {
		t.Fatalf("password must be stored hashed and verifiable")
	}
	if repos.User.CheckPassword(a, "wrong") {
		t.Fatalf("wrong password accepted")
	}

	found, err := repos.User.FindByLogin(ctx, "ALICE@example.com")
	if err != nil || found == nil || found.ID != a.ID {
		t.Fatalf("find by email login: %+v %v", found, err)
	}
	missing, err := repos.User.FindByID(ctx, 99)
	if err != nil || missing != nil {
		t.Fatalf("missing user should be nil,nil: %+v %v", missing, err)
	}
}

func TestUserUniqueConstraints(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	if err := repos.User.Create(ctx, &model.User{Username: "a", Email: "a@example.com"}, "pw"); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repos.User.Create(ctx, &model.User{Username: "a", Email: "other@example.com"}, "pw")
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate username should violate unique index, got %v", err)
	}
	err = repos.User.Create(ctx, &model.User{Username: "b", Email: "a@example.com"}, "pw")
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate email should violate unique index, got %v", err)
	}
}

func TestUserPhoneUniqueOnlyWhenPresent(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	// 两个未填手机号的用户不冲突
	if err := repos.User.Create(ctx, &model.User{Username: "u1", Email: "u1@example.com"}, "pw"); err != nil {
		t.Fatalf("create u1: %v", err)
	}
	if err := repos.User.Create(ctx, &model.User{Username: "u2", Email: "u2@example.com"}, "pw"); err != nil {
		t.Fatalf("create u2 without phone: %v", err)
	}

	if err := repos.User.Create(ctx, &model.User{Username: "u3", Email: "u3@example.com", Phone: strPtr("555")}, "pw"); err != nil {
		t.Fatalf("create u3: %v", err)
	}
	err := repos.User.Create(ctx, &model.User{Username: "u4", Email: "u4@example.com", Phone: strPtr("555")}, "pw")
	if !IsUniqueViolation(err) {
		t.Fatalf("same phone should conflict, got %v", err)
	}
}

func TestContentCompositeKey(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	movie := &model.Content{TMDBID: 550, MediaType: model.MediaTypeMovie, Title: "Fight Club", GenreIDs: []int{18}}
	if err := repos.Content.Create(ctx, movie); err != nil {
		t.Fatalf("create movie: %v", err)
	}
	// 同一 TMDB ID 的剧集是另一条内容
	show := &model.Content{TMDBID: 550, MediaType: model.MediaTypeTV, Title: "Some Show"}
	if err := repos.Content.Create(ctx, show); err != nil {
		t.Fatalf("create tv with same tmdb id: %v", err)
	}
	dup := &model.Content{TMDBID: 550, MediaType: model.MediaTypeMovie, Title: "dup"}
	if err := repos.Content.Create(ctx, dup); !IsUniqueViolation(err) {
		t.Fatalf("duplicate composite key should conflict, got %v", err)
	}

	got, err := repos.Content.FindByExternalID(ctx, 550, model.MediaTypeMovie)
	if err != nil || got == nil {
		t.Fatalf("find by external id: %v", err)
	}
	if got.ID != movie.ID || len(got.GenreIDs) != 1 || got.GenreIDs[0] != 18 {
		t.Fatalf("unexpected content %+v", got)
	}
	byID, err := repos.Content.FindByID(ctx, show.ID)
	if err != nil || byID == nil || byID.MediaType != model.MediaTypeTV {
		t.Fatalf("find by id: %+v %v", byID, err)
	}
}

func TestProfileDeleteCascades(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	u := &model.User{Username: "owner", Email: "owner@example.com"}
	if err := repos.User.Create(ctx, u, "pw"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	p := &model.Profile{UserID: u.ID, Name: "Main"}
	if err := repos.Profile.Create(ctx, p); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := repos.Watchlist.Add(ctx, &model.WatchlistEntry{ProfileID: p.ID, TMDBID: 1, MediaType: "movie"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repos.Review.Create(ctx, &model.Review{ProfileID: p.ID, TMDBID: 1, MediaType: "movie", Rating: 4}); err != nil {
		t.Fatalf("review: %v", err)
	}

	if err := repos.Profile.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := repos.Watchlist.Count(ctx); n != 0 {
		t.Fatalf("watchlist entries left: %d", n)
	}
	if n, _ := repos.Review.Count(ctx); n != 0 {
		t.Fatalf("reviews left: %d", n)
	}
	if got, _ := repos.Profile.FindByID(ctx, p.ID); got != nil {
		t.Fatalf("profile still present")
	}
}

func TestWatchlistUniqueAndRemove(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	entry := &model.WatchlistEntry{ProfileID: 1, TMDBID: 550, MediaType: "movie"}
	if err := repos.Watchlist.Add(ctx, entry); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := repos.Watchlist.Add(ctx, &model.WatchlistEntry{ProfileID: 1, TMDBID: 550, MediaType: "movie"})
	if !IsUniqueViolation(err) {
		t.Fatalf("second add should conflict, got %v", err)
	}

	removed, err := repos.Watchlist.Remove(ctx, 1, 550)
	if err != nil || !removed {
		t.Fatalf("first remove: %v %v", removed, err)
	}
	removed, err = repos.Watchlist.Remove(ctx, 1, 550)
	if err != nil || removed {
		t.Fatalf("second remove should report nothing removed: %v %v", removed, err)
	}
}

func TestLogListNewestFirst(t *testing.T) {
	repos := NewRepositories(newTestDB(t))
	ctx := context.Background()

	for _, action := range []string{"a", "b", "c"} {
		if err := repos.Log.Create(ctx, &model.LogEntry{Action: action}); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}
	entries, err := repos.Log.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != "c" || entries[1].Action != "b" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}
