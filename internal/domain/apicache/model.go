package apicache

import (
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

// Key identifies one upstream request. Params are canonicalized by
// sorted key order so equivalent requests share a cache row regardless
// of the order the caller assembled them in.
type Key struct {
	Sport    fixture.Sport
	Endpoint string
	Params   map[string]string
}

func (k Key) String() string {
	var b strings.Builder
	b.WriteString(string(k.Sport))
	b.WriteByte(':')
	b.WriteString(strings.Trim(k.Endpoint, "/"))

	if len(k.Params) == 0 {
		return b.String()
	}

	names := make([]string, 0, len(k.Params))
	for name := range k.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(k.Params[name])
	}
	return b.String()
}

// Entry is one cached upstream response. Entries are overwritten in
// place on every successful error-free fetch and never deleted; expiry
// makes them stale, not absent.
type Entry struct {
	Key        Key
	Payload    []byte
	FetchedAt  time.Time
	TTLSeconds int64
}

func (e Entry) Fresh(now time.Time) bool {
	if e.FetchedAt.IsZero() || e.TTLSeconds <= 0 {
		return false
	}
	return now.Before(e.FetchedAt.Add(time.Duration(e.TTLSeconds) * time.Second))
}
