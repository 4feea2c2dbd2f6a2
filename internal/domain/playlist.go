package domain

import "context"

type Playlist struct {
	Handle      string  `json:"handle"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LogoURL     *string `json:"logoUrl"`
}

// PlaylistDetail is a playlist with its songs ordered by id.
type PlaylistDetail struct {
	Playlist
	Songs []SongSummary `json:"songs"`
}

type NewPlaylist struct {
	Handle      string
	Name        string
	Description string
	LogoURL     *string
}

// PlaylistUpdate holds the mutable playlist fields; nil means unchanged.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	LogoURL     *string
}

type PlaylistFilter struct {
	NameLike string
}

type PlaylistRepository interface {
	Create(ctx context.Context, p NewPlaylist) (*Playlist, error)
	FindAll(ctx context.Context, f PlaylistFilter) ([]Playlist, error)
	Get(ctx context.Context, handle string) (*PlaylistDetail, error)
	Update(ctx context.Context, handle string, u PlaylistUpdate) (*Playlist, error)
	Remove(ctx context.Context, handle string) error
}
