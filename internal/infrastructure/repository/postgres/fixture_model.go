package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/sportcal/internal/domain/fixture"
)

type cachedFixtureTableModel struct {
	Sport        string         `db:"sport"`
	FixtureID    string         `db:"fixture_id"`
	LeagueID     int64          `db:"league_id"`
	LeagueName   string         `db:"league_name"`
	LeagueLogo   string         `db:"league_logo"`
	Season       string         `db:"season"`
	HomeTeamID   sql.NullInt64  `db:"home_team_id"`
	HomeTeamName sql.NullString `db:"home_team_name"`
	HomeTeamLogo sql.NullString `db:"home_team_logo"`
	AwayTeamID   sql.NullInt64  `db:"away_team_id"`
	AwayTeamName sql.NullString `db:"away_team_name"`
	AwayTeamLogo sql.NullString `db:"away_team_logo"`
	StartTime    time.Time      `db:"start_time"`
	EndTime      *time.Time     `db:"end_time"`
	Status       string         `db:"status"`
	Venue        string         `db:"venue"`
	Round        string         `db:"round"`
	HomeScore    sql.NullInt64  `db:"home_score"`
	AwayScore    sql.NullInt64  `db:"away_score"`
	PlayerIDs    pq.Int64Array  `db:"player_ids"`
	RawData      []byte         `db:"raw_data"`
	FetchedAt    time.Time      `db:"fetched_at"`
	TTLSeconds   int64          `db:"ttl_seconds"`
}

func newCachedFixtureTableModel(f fixture.Fixture) cachedFixtureTableModel {
	model := cachedFixtureTableModel{
		Sport:      string(f.Sport),
		FixtureID:  f.ID,
		LeagueID:   f.LeagueID,
		LeagueName: f.LeagueName,
		LeagueLogo: f.LeagueLogo,
		Season:     f.Season,
		StartTime:  f.StartTime,
		EndTime:    f.EndTime,
		Status:     f.Status,
		Venue:      f.Venue,
		Round:      f.Round,
		HomeScore:  nullableIntScore(f.Score.Home),
		AwayScore:  nullableIntScore(f.Score.Away),
		PlayerIDs:  pq.Int64Array(f.PlayerIDs),
		RawData:    normalizeJSONColumn(f.RawData),
		FetchedAt:  f.FetchedAt,
		TTLSeconds: f.TTLSeconds,
	}
	if f.Home != nil {
		model.HomeTeamID = sql.NullInt64{Int64: f.Home.ID, Valid: true}
		model.HomeTeamName = sql.NullString{String: f.Home.Name, Valid: true}
		model.HomeTeamLogo = sql.NullString{String: f.Home.Logo, Valid: true}
	}
	if f.Away != nil {
		model.AwayTeamID = sql.NullInt64{Int64: f.Away.ID, Valid: true}
		model.AwayTeamName = sql.NullString{String: f.Away.Name, Valid: true}
		model.AwayTeamLogo = sql.NullString{String: f.Away.Logo, Valid: true}
	}
	return model
}

func (m cachedFixtureTableModel) toDomain() fixture.Fixture {
	out := fixture.Fixture{
		ID:         m.FixtureID,
		Sport:      fixture.Sport(m.Sport),
		LeagueID:   m.LeagueID,
		LeagueName: m.LeagueName,
		LeagueLogo: m.LeagueLogo,
		Season:     m.Season,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Status:     m.Status,
		Venue:      m.Venue,
		Round:      m.Round,
		Score: fixture.Score{
			Home: nullInt64ToIntPtr(m.HomeScore),
			Away: nullInt64ToIntPtr(m.AwayScore),
		},
		PlayerIDs:  []int64(m.PlayerIDs),
		RawData:    m.RawData,
		FetchedAt:  m.FetchedAt,
		TTLSeconds: m.TTLSeconds,
	}
	// A participant row is only meaningful with a name; ids alone never
	// appear without one.
	if m.HomeTeamName.Valid && m.HomeTeamName.String != "" {
		out.Home = &fixture.Participant{
			ID:   m.HomeTeamID.Int64,
			Name: m.HomeTeamName.String,
			Logo: m.HomeTeamLogo.String,
		}
	}
	if m.AwayTeamName.Valid && m.AwayTeamName.String != "" {
		out.Away = &fixture.Participant{
			ID:   m.AwayTeamID.Int64,
			Name: m.AwayTeamName.String,
			Logo: m.AwayTeamLogo.String,
		}
	}
	return out
}

func nullableIntScore(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func nullInt64ToIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	out := int(value.Int64)
	return &out
}

// normalizeJSONColumn keeps jsonb columns non-null so reads never have
// to care about NULL vs empty.
func normalizeJSONColumn(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}
