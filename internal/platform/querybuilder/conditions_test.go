package querybuilder

import "testing"

func TestRangeConditions(t *testing.T) {
	query, args, err := Select("*").
		From("cached_fixtures").
		Where(Gte("start_time", "2026-01-01"), Lte("start_time", "2026-02-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("build range query: %v", err)
	}

	wantQuery := "SELECT * FROM cached_fixtures WHERE start_time >= $1 AND start_time <= $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestOrGrouping(t *testing.T) {
	query, args, err := Select("*").
		From("cached_fixtures").
		Where(
			Eq("sport", "football"),
			Or(
				And(Eq("league_id", int64(39)), Eq("season", "2025")),
				Eq("home_team_id", "40"),
			),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("build or query: %v", err)
	}

	wantQuery := "SELECT * FROM cached_fixtures WHERE sport = $1 AND ((league_id = $2 AND season = $3) OR home_team_id = $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestOrWithoutConditions(t *testing.T) {
	query, _, err := Select("*").From("cached_fixtures").Where(Or()).ToSQL()
	if err != nil {
		t.Fatalf("build empty or query: %v", err)
	}
	if want := "SELECT * FROM cached_fixtures WHERE 1=0"; query != want {
		t.Fatalf("unexpected query: %s", query)
	}
}

func TestArrayOverlaps(t *testing.T) {
	query, args, err := Select("*").
		From("cached_fixtures").
		Where(ArrayOverlaps("player_ids", []string{"101", "102"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build overlap query: %v", err)
	}

	wantQuery := "SELECT * FROM cached_fixtures WHERE player_ids && $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("cached_fixtures").
		Where(Eq("sport", "football"), Expr("fixture_id LIKE ?", "ph_%")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM cached_fixtures WHERE sport = $1 AND fixture_id LIKE $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresWhere(t *testing.T) {
	if _, _, err := DeleteFrom("cached_fixtures").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}
