package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"songly/internal/domain"
)

func newTestJWTer() *JWTer {
	return &JWTer{Secret: []byte("secret-test"), TTL: time.Hour}
}

func TestIssueDecode(t *testing.T) {
	j := newTestJWTer()

	t.Run("round trip", func(t *testing.T) {
		tok, err := j.Issue(domain.Principal{Username: "u1", IsAdmin: true})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		p := j.Decode(tok)
		if p == nil {
			t.Fatal("expected a principal")
		}
		if p.Username != "u1" || !p.IsAdmin {
			t.Errorf("unexpected principal %+v", p)
		}
		if p.IssuedAt.IsZero() {
			t.Error("expected issuedAt to be set")
		}
	})

	t.Run("admin flag defaults to false", func(t *testing.T) {
		tok, err := j.Issue(domain.Principal{Username: "u2"})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		claims, err := j.Parse(tok)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if claims.IsAdmin {
			t.Error("expected isAdmin false")
		}
	})

	t.Run("empty username", func(t *testing.T) {
		if _, err := j.Issue(domain.Principal{}); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &JWTer{Secret: []byte("other")}
		tok, _ := other.Issue(domain.Principal{Username: "u1"})
		if p := j.Decode(tok); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})

	t.Run("expired", func(t *testing.T) {
		past := &JWTer{Secret: j.Secret, TTL: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
		tok, _ := past.Issue(domain.Principal{Username: "u1"})
		if p := j.Decode(tok); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})

	t.Run("no expiry when ttl is zero", func(t *testing.T) {
		forever := &JWTer{Secret: j.Secret, now: func() time.Time { return time.Now().Add(-24 * 365 * time.Hour) }}
		tok, _ := forever.Issue(domain.Principal{Username: "u1"})
		if p := j.Decode(tok); p == nil {
			t.Error("expected a principal")
		}
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		a := &JWTer{Secret: j.Secret, Issuer: "a"}
		b := &JWTer{Secret: j.Secret, Issuer: "b"}
		tok, _ := a.Issue(domain.Principal{Username: "u1"})
		if p := b.Decode(tok); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})

	t.Run("string isAdmin", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"username": "u1",
			"isAdmin":  "true",
		}).SignedString(j.Secret)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if p := j.Decode(tok); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})

	t.Run("other algorithm", func(t *testing.T) {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"username": "u1"}).SignedString(j.Secret)
		if p := j.Decode(tok); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if p := j.Decode("not-a-token"); p != nil {
			t.Errorf("expected nil, got %+v", p)
		}
	})
}
