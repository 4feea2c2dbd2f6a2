package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"songly/internal/core/auth"
	"songly/pkg/utils"
)

func TestCommands(t *testing.T) {
	utils.BcryptCost = bcrypt.MinCost
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgBody := "log:\n  level: error\njwt:\n  secret: cli-secret\ndb:\n  driver: sqlite\n  dsn: \"file:" +
		filepath.Join(dir, "songly.db") + "?_foreign_keys=on\"\n  logLevel: silent\n"
	if err := os.WriteFile(cfgPath, []byte(cfgBody), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		r := &runner{out: &out}
		err := newApp(r).Run(context.Background(), append([]string{"songly-admin", "--config", cfgPath}, args...))
		return strings.TrimSpace(out.String()), err
	}

	if _, err := run("migrate"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tok, err := run("create-user", "--username", "root", "--password", "password",
		"--first-name", "R", "--last-name", "T", "--email", "root@email.com", "--admin")
	if err != nil {
		t.Fatalf("create-user: %v", err)
	}
	j := &auth.JWTer{Secret: []byte("cli-secret")}
	if p := j.Decode(tok); p == nil || p.Username != "root" || !p.IsAdmin {
		t.Errorf("unexpected principal %+v for %q", p, tok)
	}

	tok, err = run("issue-token", "--username", "root")
	if err != nil {
		t.Fatalf("issue-token: %v", err)
	}
	if p := j.Decode(tok); p == nil || p.Username != "root" {
		t.Errorf("unexpected principal %+v", p)
	}

	if _, err := run("issue-token", "--username", "nobody"); err == nil {
		t.Error("expected an error for an unknown user")
	}
	if _, err := run("create-user", "--username", "root", "--password", "password",
		"--first-name", "R", "--last-name", "T", "--email", "root@email.com"); err == nil {
		t.Error("expected a duplicate error")
	}
}
