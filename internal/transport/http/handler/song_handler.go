package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"songly/internal/core/apperr"
	"songly/internal/domain"
	"songly/internal/soundcloud"
	httpez "songly/internal/transport/http/ez"
	mdw "songly/internal/transport/http/middleware"
)

// Streamer resolves a song link to a playable stream.
type Streamer interface {
	Stream(ctx context.Context, link string) (*soundcloud.Stream, error)
}

type SongHandler struct {
	Repo domain.SongRepository
	// Streams is optional; without it /songs/:id/stream is not mounted.
	Streams Streamer
}

func NewSongHandler(repo domain.SongRepository, streams Streamer) *SongHandler {
	return &SongHandler{Repo: repo, Streams: streams}
}

type songNewIn struct {
	Title          string `json:"title"          binding:"required,min=1"`
	Artist         string `json:"artist"         binding:"required,min=1"`
	Link           string `json:"link"           binding:"required,url"`
	PlaylistHandle string `json:"playlistHandle" binding:"required,min=1,max=25"`
}

type songUpdateIn struct {
	Title  *string `json:"title"  binding:"omitempty,min=1"`
	Artist *string `json:"artist" binding:"omitempty,min=1"`
	Link   *string `json:"link"   binding:"omitempty,url"`
}

type songSearchIn struct {
	Title string `form:"title" binding:"omitempty,min=1"`
}

type songOut struct {
	Song *domain.Song `json:"song"`
}

type songDetailOut struct {
	Song *domain.SongDetail `json:"song"`
}

type songsOut struct {
	Songs []domain.SongListItem `json:"songs"`
}

type songDeletedOut struct {
	Deleted int64 `json:"deleted"`
}

type streamOut struct {
	Stream *soundcloud.Stream `json:"stream"`
}

// songID reads :id. Anything that is not an integer cannot name a song.
func songID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.NotFound("No song: " + raw)
	}
	return id, nil
}

func (h *SongHandler) Priority() int { return 20 }

func (h *SongHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/songs"))

	httpez.RegisterAction(ez, httpez.Action[songNewIn, songOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *songNewIn) (songOut, error) {
			s, err := h.Repo.Create(c.Request.Context(), domain.NewSong{
				Title:          in.Title,
				Artist:         in.Artist,
				Link:           in.Link,
				PlaylistHandle: in.PlaylistHandle,
			})
			return songOut{Song: s}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[songSearchIn, songsOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *songSearchIn) (songsOut, error) {
			ss, err := h.Repo.FindAll(c.Request.Context(), domain.SongFilter{Title: in.Title})
			return songsOut{Songs: ss}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, songDetailOut]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (songDetailOut, error) {
			id, err := songID(c)
			if err != nil {
				return songDetailOut{}, err
			}
			s, err := h.Repo.Get(c.Request.Context(), id)
			return songDetailOut{Song: s}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[songUpdateIn, songOut]{
		Method: http.MethodPatch,
		Path:   "/:id",
		Binder: httpez.BindJSON,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Handler: func(c *gin.Context, in *songUpdateIn) (songOut, error) {
			id, err := songID(c)
			if err != nil {
				return songOut{}, err
			}
			s, err := h.Repo.Update(c.Request.Context(), id, domain.SongUpdate{
				Title:  in.Title,
				Artist: in.Artist,
				Link:   in.Link,
			})
			return songOut{Song: s}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, songDeletedOut]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: httpez.BindNone,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (songDeletedOut, error) {
			id, err := songID(c)
			if err != nil {
				return songDeletedOut{}, err
			}
			if err := h.Repo.Remove(c.Request.Context(), id); err != nil {
				return songDeletedOut{}, err
			}
			return songDeletedOut{Deleted: id}, nil
		},
	})

	if h.Streams == nil {
		return
	}
	httpez.RegisterAction(ez, httpez.Action[struct{}, streamOut]{
		Method: http.MethodGet,
		Path:   "/:id/stream",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (streamOut, error) {
			id, err := songID(c)
			if err != nil {
				return streamOut{}, err
			}
			s, err := h.Repo.Get(c.Request.Context(), id)
			if err != nil {
				return streamOut{}, err
			}
			st, err := h.Streams.Stream(c.Request.Context(), s.Link)
			return streamOut{Stream: st}, err
		},
	})
}
