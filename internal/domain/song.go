package domain

import "context"

type Song struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	Link           string `json:"link"`
	PlaylistHandle string `json:"playlistHandle"`
}

// SongSummary is the shape embedded in a playlist detail.
type SongSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Link   string `json:"link"`
}

// SongListItem is a search result row; PlaylistName comes from a left join.
type SongListItem struct {
	Song
	PlaylistName *string `json:"playlistName"`
}

// SongDetail replaces the playlist handle with the playlist itself.
type SongDetail struct {
	SongSummary
	Playlist *Playlist `json:"playlist"`
}

type NewSong struct {
	Title          string
	Artist         string
	Link           string
	PlaylistHandle string
}

// SongUpdate holds the mutable song fields. The playlist handle is not one of them.
type SongUpdate struct {
	Title  *string
	Artist *string
	Link   *string
}

type SongFilter struct {
	Title string
}

type SongRepository interface {
	Create(ctx context.Context, s NewSong) (*Song, error)
	FindAll(ctx context.Context, f SongFilter) ([]SongListItem, error)
	Get(ctx context.Context, id int64) (*SongDetail, error)
	Update(ctx context.Context, id int64, u SongUpdate) (*Song, error)
	Remove(ctx context.Context, id int64) error
}
