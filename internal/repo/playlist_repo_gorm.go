package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"songly/internal/core/apperr"
	"songly/internal/domain"
)

// playlistColumns renames API fields whose column name differs.
var playlistColumns = map[string]string{"logoUrl": "logo_url"}

const playlistSelect = `handle, name, description, logo_url`

type PlaylistRepo struct{ db *gorm.DB }

func NewPlaylistRepo(db *gorm.DB) *PlaylistRepo { return &PlaylistRepo{db: db} }

var _ domain.PlaylistRepository = (*PlaylistRepo)(nil)

// Create fails with BadRequest when the handle is taken.
func (r *PlaylistRepo) Create(ctx context.Context, in domain.NewPlaylist) (*domain.Playlist, error) {
	db := r.db.WithContext(ctx)

	var dup []string
	if err := db.Raw(`SELECT handle FROM playlists WHERE handle = $1`, in.Handle).Scan(&dup).Error; err != nil {
		return nil, fmt.Errorf("check playlist handle: %w", err)
	}
	if len(dup) > 0 {
		return nil, apperr.BadRequest("Duplicate playlist: " + in.Handle)
	}

	var p domain.Playlist
	err := db.Raw(`
		INSERT INTO playlists (handle, name, description, logo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+playlistSelect,
		in.Handle, in.Name, in.Description, in.LogoURL,
	).Scan(&p).Error
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	return &p, nil
}

// playlistFilterWhere supports nameLike only.
func playlistFilterWhere(f domain.PlaylistFilter, likeOp string) (string, []any) {
	var w whereBuilder
	w.like("name", likeOp, f.NameLike)
	return w.build()
}

// FindAll returns playlists ordered by name; no match is an empty slice.
func (r *PlaylistRepo) FindAll(ctx context.Context, f domain.PlaylistFilter) ([]domain.Playlist, error) {
	where, vals := playlistFilterWhere(f, likeOperator(r.db))

	out := []domain.Playlist{}
	q := `SELECT ` + playlistSelect + ` FROM playlists ` + whereSQL(where) + ` ORDER BY name`
	if err := r.db.WithContext(ctx).Raw(q, vals...).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	if out == nil {
		out = []domain.Playlist{}
	}
	return out, nil
}

// Get loads the playlist first, then its songs.
func (r *PlaylistRepo) Get(ctx context.Context, handle string) (*domain.PlaylistDetail, error) {
	db := r.db.WithContext(ctx)

	var rows []domain.Playlist
	if err := db.Raw(`SELECT `+playlistSelect+` FROM playlists WHERE handle = $1`, handle).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("No playlist: " + handle)
	}

	songs := []domain.SongSummary{}
	err := db.Raw(`
		SELECT id, title, artist, link
		FROM songs
		WHERE playlist_handle = $1
		ORDER BY id`, handle,
	).Scan(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("get playlist songs: %w", err)
	}
	if songs == nil {
		songs = []domain.SongSummary{}
	}
	return &domain.PlaylistDetail{Playlist: rows[0], Songs: songs}, nil
}

func playlistAssignments(u domain.PlaylistUpdate) []Assignment {
	var out []Assignment
	if u.Name != nil {
		out = append(out, Assignment{"name", *u.Name})
	}
	if u.Description != nil {
		out = append(out, Assignment{"description", *u.Description})
	}
	if u.LogoURL != nil {
		out = append(out, Assignment{"logoUrl", *u.LogoURL})
	}
	return out
}

// Update applies a partial update. The handle itself is never updatable.
func (r *PlaylistRepo) Update(ctx context.Context, handle string, u domain.PlaylistUpdate) (*domain.Playlist, error) {
	set, vals, err := PartialUpdate(playlistAssignments(u), playlistColumns)
	if err != nil {
		return nil, err
	}

	var rows []domain.Playlist
	q := `UPDATE playlists SET ` + set + ` WHERE handle = ` + nextParam(len(vals)) + ` RETURNING ` + playlistSelect
	if err := r.db.WithContext(ctx).Raw(q, append(vals, handle)...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("No playlist: " + handle)
	}
	return &rows[0], nil
}

// Remove deletes the playlist; its songs go with it through the foreign key.
func (r *PlaylistRepo) Remove(ctx context.Context, handle string) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM playlists WHERE handle = $1`, handle)
	if res.Error != nil {
		return fmt.Errorf("delete playlist: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("No playlist: " + handle)
	}
	return nil
}
