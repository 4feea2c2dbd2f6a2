package repo

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"songly/internal/core/apperr"
	"songly/internal/domain"
)

// songColumns renames API fields whose column name differs.
var songColumns = map[string]string{"playlistHandle": "playlist_handle"}

const songSelect = `id, title, artist, link, playlist_handle`

type SongRepo struct{ db *gorm.DB }

func NewSongRepo(db *gorm.DB) *SongRepo { return &SongRepo{db: db} }

var _ domain.SongRepository = (*SongRepo)(nil)

func notFoundSong(id int64) error { return apperr.NotFound("No song: " + strconv.FormatInt(id, 10)) }

// Create checks the playlist first and inserts nothing when it is missing.
func (r *SongRepo) Create(ctx context.Context, in domain.NewSong) (*domain.Song, error) {
	db := r.db.WithContext(ctx)

	var handles []string
	if err := db.Raw(`SELECT handle FROM playlists WHERE handle = $1`, in.PlaylistHandle).Scan(&handles).Error; err != nil {
		return nil, fmt.Errorf("check playlist: %w", err)
	}
	if len(handles) == 0 {
		return nil, apperr.NotFound("No playlist: " + in.PlaylistHandle)
	}

	var s domain.Song
	err := db.Raw(`
		INSERT INTO songs (title, artist, link, playlist_handle)
		VALUES ($1, $2, $3, $4)
		RETURNING `+songSelect,
		in.Title, in.Artist, in.Link, in.PlaylistHandle,
	).Scan(&s).Error
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return &s, nil
}

// songFilterWhere supports title only. Columns are qualified for the playlist join.
func songFilterWhere(f domain.SongFilter, likeOp string) (string, []any) {
	var w whereBuilder
	w.like("s.title", likeOp, f.Title)
	return w.build()
}

// FindAll returns songs with their playlist name, in id order.
func (r *SongRepo) FindAll(ctx context.Context, f domain.SongFilter) ([]domain.SongListItem, error) {
	where, vals := songFilterWhere(f, likeOperator(r.db))

	out := []domain.SongListItem{}
	q := `
		SELECT s.id, s.title, s.artist, s.link, s.playlist_handle, p.name AS playlist_name
		FROM songs s
		LEFT JOIN playlists p ON p.handle = s.playlist_handle
		` + whereSQL(where) + `
		ORDER BY s.id`
	if err := r.db.WithContext(ctx).Raw(q, vals...).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	if out == nil {
		out = []domain.SongListItem{}
	}
	return out, nil
}

// Get loads the song, then its playlist, and drops the redundant handle.
func (r *SongRepo) Get(ctx context.Context, id int64) (*domain.SongDetail, error) {
	db := r.db.WithContext(ctx)

	var rows []domain.Song
	if err := db.Raw(`SELECT `+songSelect+` FROM songs WHERE id = $1`, id).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFoundSong(id)
	}
	s := rows[0]

	var playlists []domain.Playlist
	if err := db.Raw(`SELECT `+playlistSelect+` FROM playlists WHERE handle = $1`, s.PlaylistHandle).Scan(&playlists).Error; err != nil {
		return nil, fmt.Errorf("get song playlist: %w", err)
	}

	out := &domain.SongDetail{
		SongSummary: domain.SongSummary{ID: s.ID, Title: s.Title, Artist: s.Artist, Link: s.Link},
	}
	if len(playlists) > 0 {
		out.Playlist = &playlists[0]
	}
	return out, nil
}

func songAssignments(u domain.SongUpdate) []Assignment {
	var out []Assignment
	if u.Title != nil {
		out = append(out, Assignment{"title", *u.Title})
	}
	if u.Artist != nil {
		out = append(out, Assignment{"artist", *u.Artist})
	}
	if u.Link != nil {
		out = append(out, Assignment{"link", *u.Link})
	}
	return out
}

func (r *SongRepo) Update(ctx context.Context, id int64, u domain.SongUpdate) (*domain.Song, error) {
	set, vals, err := PartialUpdate(songAssignments(u), songColumns)
	if err != nil {
		return nil, err
	}

	var rows []domain.Song
	q := `UPDATE songs SET ` + set + ` WHERE id = ` + nextParam(len(vals)) + ` RETURNING ` + songSelect
	if err := r.db.WithContext(ctx).Raw(q, append(vals, id)...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("update song: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFoundSong(id)
	}
	return &rows[0], nil
}

func (r *SongRepo) Remove(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM songs WHERE id = $1`, id)
	if res.Error != nil {
		return fmt.Errorf("delete song: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundSong(id)
	}
	return nil
}
