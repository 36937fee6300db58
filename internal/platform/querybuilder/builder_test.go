package querybuilder

import "testing"

func TestSelectToSQL(t *testing.T) {
	query, args, err := Select("*").From("waiver_claims").
		Where(
			Eq("league_id", "l-1"),
			Eq("status", "pending"),
			IsNull("processed_at"),
		).
		OrderBy("created_at").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT * FROM waiver_claims WHERE league_id = $1 AND status = $2 AND processed_at IS NULL ORDER BY created_at LIMIT 10"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 || args[0] != "l-1" || args[1] != "pending" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestUpdateToSQL(t *testing.T) {
	query, args, err := Update("roster_assignments").
		Set("week_dropped", 7).
		Where(Eq("id", "ra-1"), IsNull("week_dropped")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update: %v", err)
	}

	want := "UPDATE roster_assignments SET week_dropped = $1 WHERE id = $2 AND week_dropped IS NULL"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 || args[0] != 7 || args[1] != "ra-1" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestExprRewritesPlaceholders(t *testing.T) {
	query, args, err := Select("id").From("weeks").
		Where(Expr("season = ? AND number >= ?", 2026, 3)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id FROM weeks WHERE season = $1 AND number >= $2"
	if query != want {
		t.Fatalf("unexpected query:\n got=%s\nwant=%s", query, want)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestInEmptyValuesNeverMatch(t *testing.T) {
	query, args, err := Select("id").From("teams").
		Where(In("id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select: %v", err)
	}

	want := "SELECT id FROM teams WHERE 1=0"
	if query != want {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestUpdateRequiresWhere(t *testing.T) {
	if _, _, err := Update("teams").Set("waiver_priority", 1).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where")
	}
}
