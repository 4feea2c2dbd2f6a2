package repo

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"songly/internal/core/database"
	"songly/internal/feature"
	"songly/pkg/utils"
)

// setupTestDB opens an in-memory sqlite database, migrates it and seeds
// playlists c1..c3, four songs in c1 and users u1, u2.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost

	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:?_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := feature.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	seed := []string{
		`INSERT INTO playlists (handle, name, description, logo_url)
		 VALUES ('c1', 'C1', 'Desc1', 'http://c1.img'),
		        ('c2', 'C2', 'Desc2', 'http://c2.img'),
		        ('c3', 'C3', 'Desc3', 'http://c3.img')`,
		`INSERT INTO songs (title, artist, link, playlist_handle)
		 VALUES ('Song1', 'ArtistA', 'https://soundcloud.com/a/1', 'c1'),
		        ('Song2', 'ArtistA', 'https://soundcloud.com/a/2', 'c1'),
		        ('Song3', 'ArtistA', 'https://soundcloud.com/a/3', 'c1'),
		        ('Song4', 'ArtistB', 'https://soundcloud.com/b/4', 'c1')`,
	}
	for _, q := range seed {
		if err := db.Exec(q).Error; err != nil {
			t.Fatalf("failed to seed: %v", err)
		}
	}
	for _, u := range []struct{ name, pw string }{{"u1", "password1"}, {"u2", "password2"}} {
		hashed, err := utils.HashPassword(u.pw)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		err = db.Exec(`INSERT INTO users (username, password, first_name, last_name, email, is_admin)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.name, hashed, u.name+"F", u.name+"L", u.name+"@email.com", false).Error
		if err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	return db
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.Raw(`SELECT COUNT(*) FROM ` + table).Scan(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()
