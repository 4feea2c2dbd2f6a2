package song

import "songly/internal/feature/playlist"

// SongModel cascades on playlist delete, so songs never outlive their playlist.
type SongModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Title          string `gorm:"not null"`
	Artist         string `gorm:"not null"`
	Link           string `gorm:"not null"`
	PlaylistHandle string `gorm:"size:25;not null;index"`

	Playlist playlist.PlaylistModel `gorm:"foreignKey:PlaylistHandle;references:Handle;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (SongModel) TableName() string { return "songs" }
