package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"songly/internal/core/apperr"
	"songly/internal/domain"
	"songly/pkg/utils"
)

// userColumns renames API fields whose column name differs.
var userColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"isAdmin":   "is_admin",
}

const userSelect = `username, first_name, last_name, email, is_admin`

// userRow is the persisted shape, digest included. It never leaves this package.
type userRow struct {
	domain.User
	Password string
}

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

// Register hashes the password and inserts the user. IsAdmin is only true
// when the caller set it, which only the admin create path does.
func (r *UserRepo) Register(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	db := r.db.WithContext(ctx)

	var dup []string
	if err := db.Raw(`SELECT username FROM users WHERE username = $1`, in.Username).Scan(&dup).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if len(dup) > 0 {
		return nil, apperr.BadRequest("Duplicate username: " + in.Username)
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var u domain.User
	err = db.Raw(`
		INSERT INTO users (username, password, first_name, last_name, email, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userSelect,
		in.Username, hashed, in.FirstName, in.LastName, in.Email, in.IsAdmin,
	).Scan(&u).Error
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &u, nil
}

// Authenticate returns the user when the password matches its digest.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var rows []userRow
	err := r.db.WithContext(ctx).
		Raw(`SELECT `+userSelect+`, password FROM users WHERE username = $1`, username).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(rows) == 0 || !utils.CheckPassword(password, rows[0].Password) {
		return nil, apperr.Unauthorized("Invalid username/password")
	}
	u := rows[0].User
	return &u, nil
}

func (r *UserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	out := []domain.User{}
	if err := r.db.WithContext(ctx).Raw(`SELECT ` + userSelect + ` FROM users ORDER BY username`).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

func (r *UserRepo) Get(ctx context.Context, username string) (*domain.User, error) {
	var rows []domain.User
	if err := r.db.WithContext(ctx).Raw(`SELECT `+userSelect+` FROM users WHERE username = $1`, username).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("No user: " + username)
	}
	return &rows[0], nil
}

func userAssignments(u domain.UserUpdate) ([]Assignment, error) {
	var out []Assignment
	if u.FirstName != nil {
		out = append(out, Assignment{"firstName", *u.FirstName})
	}
	if u.LastName != nil {
		out = append(out, Assignment{"lastName", *u.LastName})
	}
	if u.Password != nil {
		hashed, err := utils.HashPassword(*u.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		out = append(out, Assignment{"password", hashed})
	}
	if u.Email != nil {
		out = append(out, Assignment{"email", *u.Email})
	}
	return out, nil
}

// Update re-hashes the password when one is given.
func (r *UserRepo) Update(ctx context.Context, username string, u domain.UserUpdate) (*domain.User, error) {
	data, err := userAssignments(u)
	if err != nil {
		return nil, err
	}
	set, vals, err := PartialUpdate(data, userColumns)
	if err != nil {
		return nil, err
	}

	var rows []domain.User
	q := `UPDATE users SET ` + set + ` WHERE username = ` + nextParam(len(vals)) + ` RETURNING ` + userSelect
	if err := r.db.WithContext(ctx).Raw(q, append(vals, username)...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperr.NotFound("No user: " + username)
	}
	return &rows[0], nil
}

func (r *UserRepo) Remove(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM users WHERE username = $1`, username)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("No user: " + username)
	}
	return nil
}
