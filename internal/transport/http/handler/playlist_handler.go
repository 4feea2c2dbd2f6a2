package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songly/internal/domain"
	httpez "songly/internal/transport/http/ez"
	mdw "songly/internal/transport/http/middleware"
)

type PlaylistHandler struct {
	Repo domain.PlaylistRepository
}

func NewPlaylistHandler(repo domain.PlaylistRepository) *PlaylistHandler {
	return &PlaylistHandler{Repo: repo}
}

type playlistNewIn struct {
	Handle      string  `json:"handle"      binding:"required,min=1,max=25"`
	Name        string  `json:"name"        binding:"required,min=1"`
	Description string  `json:"description" binding:"required,min=1"`
	LogoURL     *string `json:"logoUrl"     binding:"omitempty,url"`
}

type playlistUpdateIn struct {
	Name        *string `json:"name"        binding:"omitempty,min=1"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	LogoURL     *string `json:"logoUrl"     binding:"omitempty,url"`
}

type playlistSearchIn struct {
	NameLike string `form:"nameLike" binding:"omitempty,min=1"`
}

type playlistOut struct {
	Playlist *domain.Playlist `json:"playlist"`
}

type playlistDetailOut struct {
	Playlist *domain.PlaylistDetail `json:"playlist"`
}

type playlistsOut struct {
	Playlists []domain.Playlist `json:"playlists"`
}

type playlistDeletedOut struct {
	Deleted string `json:"deleted"`
}

func (h *PlaylistHandler) Priority() int { return 10 }

func (h *PlaylistHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/playlists"))

	httpez.RegisterAction(ez, httpez.Action[playlistNewIn, playlistOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *playlistNewIn) (playlistOut, error) {
			p, err := h.Repo.Create(c.Request.Context(), domain.NewPlaylist{
				Handle:      in.Handle,
				Name:        in.Name,
				Description: in.Description,
				LogoURL:     in.LogoURL,
			})
			return playlistOut{Playlist: p}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[playlistSearchIn, playlistsOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *playlistSearchIn) (playlistsOut, error) {
			ps, err := h.Repo.FindAll(c.Request.Context(), domain.PlaylistFilter{NameLike: in.NameLike})
			return playlistsOut{Playlists: ps}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, playlistDetailOut]{
		Method: http.MethodGet,
		Path:   "/:handle",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (playlistDetailOut, error) {
			p, err := h.Repo.Get(c.Request.Context(), c.Param("handle"))
			return playlistDetailOut{Playlist: p}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[playlistUpdateIn, playlistOut]{
		Method: http.MethodPatch,
		Path:   "/:handle",
		Binder: httpez.BindJSON,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Handler: func(c *gin.Context, in *playlistUpdateIn) (playlistOut, error) {
			p, err := h.Repo.Update(c.Request.Context(), c.Param("handle"), domain.PlaylistUpdate{
				Name:        in.Name,
				Description: in.Description,
				LogoURL:     in.LogoURL,
			})
			return playlistOut{Playlist: p}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, playlistDeletedOut]{
		Method: http.MethodDelete,
		Path:   "/:handle",
		Binder: httpez.BindNone,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (playlistDeletedOut, error) {
			handle := c.Param("handle")
			if err := h.Repo.Remove(c.Request.Context(), handle); err != nil {
				return playlistDeletedOut{}, err
			}
			return playlistDeletedOut{Deleted: handle}, nil
		},
	})
}
