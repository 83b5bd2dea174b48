package calendartoken

import "time"

// Token maps one opaque calendar-feed token to a user. Issuance and
// rotation live in the surrounding product; this service only resolves.
type Token struct {
	Token     string
	UserID    string
	CreatedAt time.Time
}
