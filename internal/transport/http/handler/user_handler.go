package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songly/internal/domain"
	httpez "songly/internal/transport/http/ez"
	mdw "songly/internal/transport/http/middleware"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(p domain.Principal) (string, error)
}

func issueFor(t TokenIssuer, u *domain.User) (string, error) {
	return t.Issue(domain.Principal{Username: u.Username, IsAdmin: u.IsAdmin})
}

type UserHandler struct {
	Repo   domain.UserRepository
	Tokens TokenIssuer
}

func NewUserHandler(repo domain.UserRepository, tokens TokenIssuer) *UserHandler {
	return &UserHandler{Repo: repo, Tokens: tokens}
}

type userNewIn struct {
	Username  string `json:"username"  binding:"required,min=1,max=25"`
	Password  string `json:"password"  binding:"required,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName"  binding:"required,min=1,max=30"`
	Email     string `json:"email"     binding:"required,min=6,max=60,email"`
	IsAdmin   *bool  `json:"isAdmin"`
}

type userUpdateIn struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName"  binding:"omitempty,min=1,max=30"`
	Password  *string `json:"password"  binding:"omitempty,min=5,max=20"`
	Email     *string `json:"email"     binding:"omitempty,min=6,max=60,email"`
}

type userTokenOut struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type userOut struct {
	User *domain.User `json:"user"`
}

type usersOut struct {
	Users []domain.User `json:"users"`
}

type userDeletedOut struct {
	Deleted string `json:"deleted"`
}

func (h *UserHandler) Priority() int { return 30 }

// MountAPI mounts /users. Creating here is the admin path and may create admins.
func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/users"))
	selfOrAdmin := mdw.RequireSelfOrAdmin("username")

	httpez.RegisterAction(ez, httpez.Action[userNewIn, userTokenOut]{
		Method: http.MethodPost,
		Path:   "",
		Binder: httpez.BindJSON,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *userNewIn) (userTokenOut, error) {
			u, err := h.Repo.Register(c.Request.Context(), domain.NewUser{
				Username:  in.Username,
				Password:  in.Password,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
				IsAdmin:   in.IsAdmin != nil && *in.IsAdmin,
			})
			if err != nil {
				return userTokenOut{}, err
			}
			tok, err := issueFor(h.Tokens, u)
			if err != nil {
				return userTokenOut{}, err
			}
			return userTokenOut{User: u, Token: tok}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, usersOut]{
		Method: http.MethodGet,
		Path:   "",
		Binder: httpez.BindNone,
		Gates:  []httpez.Gate{mdw.RequireAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (usersOut, error) {
			us, err := h.Repo.FindAll(c.Request.Context())
			return usersOut{Users: us}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/:username",
		Binder: httpez.BindNone,
		Gates:  []httpez.Gate{selfOrAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			u, err := h.Repo.Get(c.Request.Context(), c.Param("username"))
			return userOut{User: u}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[userUpdateIn, userOut]{
		Method: http.MethodPatch,
		Path:   "/:username",
		Binder: httpez.BindJSON,
		Gates:  []httpez.Gate{selfOrAdmin},
		Handler: func(c *gin.Context, in *userUpdateIn) (userOut, error) {
			u, err := h.Repo.Update(c.Request.Context(), c.Param("username"), domain.UserUpdate{
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Password:  in.Password,
				Email:     in.Email,
			})
			return userOut{User: u}, err
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, userDeletedOut]{
		Method: http.MethodDelete,
		Path:   "/:username",
		Binder: httpez.BindNone,
		Gates:  []httpez.Gate{selfOrAdmin},
		Handler: func(c *gin.Context, _ *struct{}) (userDeletedOut, error) {
			username := c.Param("username")
			if err := h.Repo.Remove(c.Request.Context(), username); err != nil {
				return userDeletedOut{}, err
			}
			return userDeletedOut{Deleted: username}, nil
		},
	})
}
