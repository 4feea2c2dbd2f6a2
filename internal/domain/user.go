package domain

import "context"

// User never carries the password digest.
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

type NewUser struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}

// UserUpdate holds the mutable user fields; Password is plaintext and gets re-hashed.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Password  *string
	Email     *string
}

type UserRepository interface {
	Register(ctx context.Context, u NewUser) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	Get(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, username string, u UserUpdate) (*User, error)
	Remove(ctx context.Context, username string) error
}
