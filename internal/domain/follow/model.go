package follow

import (
	"strings"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

type EntityType string

const (
	EntityLeague EntityType = "league"
	EntityTeam   EntityType = "team"
	EntityPlayer EntityType = "player"
	EntitySport  EntityType = "sport"
)

// Follow is one user's subscription to an entity. Rows are owned by the
// surrounding product; this service only reads them.
type Follow struct {
	UserID     string
	EntityType EntityType
	EntityID   string
	Sport      fixture.Sport
	// Metadata carries optional per-follow overrides, currently only a
	// season label under the "season" key.
	Metadata map[string]string
}

func (f Follow) SeasonOverride() string {
	return strings.TrimSpace(f.Metadata["season"])
}

// Entity is the deduplicated fan-out unit for synchronization: one
// followed entity across all users, reduced to the fields that affect
// which upstream request it maps to.
type Entity struct {
	Type   EntityType
	ID     string
	Sport  fixture.Sport
	Season string
}

// DedupKey collapses equivalent follows from different users.
func (e Entity) DedupKey() string {
	return string(e.Type) + ":" + e.ID + ":" + string(e.Sport) + ":" + e.Season
}
