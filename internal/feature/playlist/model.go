package playlist

type PlaylistModel struct {
	Handle      string  `gorm:"primaryKey;size:25"`
	Name        string  `gorm:"not null"`
	Description string  `gorm:"not null"`
	LogoURL     *string `gorm:"column:logo_url"`
}

func (PlaylistModel) TableName() string { return "playlists" }
