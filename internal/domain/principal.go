package domain

import "time"

// Principal is the identity decoded from a verified token. It lives for one request.
type Principal struct {
	Username string
	IsAdmin  bool
	IssuedAt time.Time
}
