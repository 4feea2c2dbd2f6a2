package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"songly/internal/domain"
	httpez "songly/internal/transport/http/ez"
)

type AuthHandler struct {
	Users  domain.UserRepository
	Tokens TokenIssuer
}

func NewAuthHandler(users domain.UserRepository, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

type authTokenIn struct {
	Username string `json:"username" binding:"required,min=1,max=25"`
	Password string `json:"password" binding:"required,min=1,max=20"`
}

type authRegisterIn struct {
	Username  string `json:"username"  binding:"required,min=1,max=25"`
	Password  string `json:"password"  binding:"required,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName"  binding:"required,min=1,max=30"`
	Email     string `json:"email"     binding:"required,min=6,max=60,email"`
}

type tokenOut struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Priority() int { return 0 }

func (h *AuthHandler) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("/auth"))

	httpez.RegisterAction(ez, httpez.Action[authTokenIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/token",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *authTokenIn) (tokenOut, error) {
			u, err := h.Users.Authenticate(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			tok, err := issueFor(h.Tokens, u)
			return tokenOut{Token: tok}, err
		},
	})

	// Self-registration never creates admins.
	httpez.RegisterAction(ez, httpez.Action[authRegisterIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *authRegisterIn) (tokenOut, error) {
			u, err := h.Users.Register(c.Request.Context(), domain.NewUser{
				Username:  in.Username,
				Password:  in.Password,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Email:     in.Email,
			})
			if err != nil {
				return tokenOut{}, err
			}
			tok, err := issueFor(h.Tokens, u)
			return tokenOut{Token: tok}, err
		},
	})
}
