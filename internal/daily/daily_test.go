package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/wingo/apps/go-server/assets"
	"github.com/robalobadob/wingo/apps/go-server/internal/database"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	d := time.Date(2026, 3, 2, 5, 0, 0, 0, loc)
	if got := DateKey(d); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}
}

func TestRoundIsDeterministic(t *testing.T) {
	day := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	a := Round(day, "salt")
	b := Round(day.Add(3*time.Hour), "salt")
	if a.ID != "daily-2026-10-17" || a.ID != b.ID {
		t.Fatalf("unexpected ids %q and %q", a.ID, b.ID)
	}
	if a.Target != b.Target || a.Big != b.Big {
		t.Fatalf("expected same round, got %+v and %+v", a, b)
	}
	for i := range a.Numbers {
		if a.Numbers[i] != b.Numbers[i] {
			t.Fatalf("expected same numbers, got %v and %v", a.Numbers, b.Numbers)
		}
	}
	if a.Big < 1 || a.Big > 4 || len(a.Numbers) != 6 {
		t.Fatalf("unexpected round shape: %+v", a)
	}
	if Seed(day, "salt") == Seed(day, "pepper") {
		t.Fatalf("expected different seeds for different salts")
	}
	if Seed(day, "salt") == Seed(day.AddDate(0, 0, 1), "salt") {
		t.Fatalf("expected different seeds for different dates")
	}
}

func TestStore(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db, assets.Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	st := NewStore(db)
	date := "2026-10-17"

	played, err := st.AlreadyPlayed(ctx, "alice", date)
	if err != nil || played {
		t.Fatalf("expected not played, got %v, %v", played, err)
	}

	results := []Result{
		{UserID: "alice", Date: date, Target: 500, Value: 498, Score: 8, ElapsedMs: 1000},
		{UserID: "bob", Date: date, Target: 500, Value: 500, Score: 10, ElapsedMs: 9000},
		{UserID: "carol", Date: date, Target: 500, Value: 498, Score: 8, ElapsedMs: 500},
		// second attempt for alice is ignored
		{UserID: "alice", Date: date, Target: 500, Value: 500, Score: 10, ElapsedMs: 10},
	}
	for _, r := range results {
		if err := st.InsertResult(ctx, r); err != nil {
			t.Fatalf("insert %+v: %v", r, err)
		}
	}

	played, err = st.AlreadyPlayed(ctx, "alice", date)
	if err != nil || !played {
		t.Fatalf("expected played, got %v, %v", played, err)
	}

	rows, err := st.Leaderboard(ctx, date, 0)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []string{"bob", "carol", "alice"}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i, w := range want {
		if rows[i].UserID != w {
			t.Fatalf("row %d: expected %s, got %+v", i, w, rows)
		}
	}
	if rows[2].Score != 8 {
		t.Fatalf("expected alice's first result to stand, got %+v", rows[2])
	}
}
