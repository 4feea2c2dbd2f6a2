// Command songly-admin runs operator tasks against the songly database.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"songly/internal/core/auth"
	"songly/internal/core/config"
	"songly/internal/core/database"
	"songly/internal/core/logger"
	"songly/internal/domain"
	"songly/internal/feature"
	"songly/internal/repo"
)

// runner holds what every command needs; it is filled in by the root Before hook.
type runner struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
	out io.Writer
}

func (r *runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.cfg = cfg
	r.log, _ = logger.New(cfg.Log.Level, cfg.Log.JSON)

	db, err := database.NewGorm(database.Opts{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		LogLevel: cfg.DB.LogLevel,
	})
	if err != nil {
		return ctx, fmt.Errorf("open database: %w", err)
	}
	r.db = db
	return ctx, nil
}

func (r *runner) after(ctx context.Context, cmd *cli.Command) error {
	if r.log != nil {
		_ = r.log.Sync()
	}
	if r.db != nil {
		return database.Close(r.db)
	}
	return nil
}

func (r *runner) jwter() *auth.JWTer {
	return &auth.JWTer{Secret: []byte(r.cfg.JWT.Secret), Issuer: r.cfg.JWT.Issuer, TTL: r.cfg.JWT.TTL()}
}

func (r *runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	if err := feature.Migrate(r.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	r.log.Info("migrate done", zap.String("driver", r.cfg.DB.Driver))
	return nil
}

func (r *runner) CreateUser(ctx context.Context, cmd *cli.Command) error {
	u, err := repo.NewUserRepo(r.db).Register(ctx, domain.NewUser{
		Username:  cmd.String("username"),
		Password:  cmd.String("password"),
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
		Email:     cmd.String("email"),
		IsAdmin:   cmd.Bool("admin"),
	})
	if err != nil {
		return err
	}
	tok, err := r.jwter().Issue(domain.Principal{Username: u.Username, IsAdmin: u.IsAdmin})
	if err != nil {
		return err
	}
	r.log.Info("user created", zap.String("username", u.Username), zap.Bool("isAdmin", u.IsAdmin))
	_, err = fmt.Fprintln(r.out, tok)
	return err
}

func (r *runner) IssueToken(ctx context.Context, cmd *cli.Command) error {
	u, err := repo.NewUserRepo(r.db).Get(ctx, cmd.String("username"))
	if err != nil {
		return err
	}
	tok, err := r.jwter().Issue(domain.Principal{Username: u.Username, IsAdmin: u.IsAdmin})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, tok)
	return err
}

func newApp(r *runner) *cli.Command {
	return &cli.Command{
		Name:  "songly-admin",
		Usage: "Operator tasks for the songly API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Before: r.before,
		After:  r.after,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema",
				Action: r.Migrate,
			},
			{
				Name:  "create-user",
				Usage: "Add a user and print a token for it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "first-name", Required: true},
					&cli.StringFlag{Name: "last-name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.BoolFlag{Name: "admin", Usage: "Create an admin user"},
				},
				Action: r.CreateUser,
			},
			{
				Name:  "issue-token",
				Usage: "Print a token for an existing user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true},
				},
				Action: r.IssueToken,
			},
		},
	}
}

func main() {
	_ = godotenv.Load()
	r := &runner{out: os.Stdout}
	if err := newApp(r).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "songly-admin:", err)
		os.Exit(1)
	}
}
