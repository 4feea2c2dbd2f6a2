package feature

import (
	"gorm.io/gorm"

	"songly/internal/feature/playlist"
	"songly/internal/feature/song"
	"songly/internal/feature/user"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{&playlist.PlaylistModel{}, &song.SongModel{}, &user.UserModel{}}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
