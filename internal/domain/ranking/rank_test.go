package ranking

import "testing"

type row struct {
	userID   string
	score    *int
	previous *int
}

func intp(v int) *int { return &v }

func scoreOf(r row) (int, bool) {
	if r.score == nil {
		return 0, false
	}
	return *r.score, true
}

func previousOf(r row) (int, bool) {
	if r.previous == nil {
		return 0, false
	}
	return *r.previous, true
}

func rowIdentity(r row) string { return r.userID }

func TestRanksCompetitionRanking(t *testing.T) {
	t.Parallel()

	rows := []row{
		{userID: "c", score: intp(45)},
		{userID: "a", score: intp(50)},
		{userID: "d", score: intp(40)},
		{userID: "b", score: intp(45)},
	}

	got := Ranks(rows, scoreOf)
	if len(got) != 4 {
		t.Fatalf("expected 4 ranked rows, got %d", len(got))
	}

	wantRanks := []int{1, 2, 2, 4}
	wantUsers := []string{"a", "c", "b", "d"}
	for i, ranked := range got {
		if ranked.Rank != wantRanks[i] {
			t.Fatalf("row %d: rank = %d, want %d", i, ranked.Rank, wantRanks[i])
		}
		if ranked.Item.userID != wantUsers[i] {
			t.Fatalf("row %d: user = %q, want %q", i, ranked.Item.userID, wantUsers[i])
		}
	}
}

func TestRanksMissingScoreCoercesToZero(t *testing.T) {
	t.Parallel()

	rows := []row{
		{userID: "a", score: intp(3)},
		{userID: "b"},
		{userID: "c", score: intp(0)},
	}

	got := Ranks(rows, scoreOf)
	if got[0].Item.userID != "a" || got[0].Rank != 1 {
		t.Fatalf("first row = %q rank %d, want a rank 1", got[0].Item.userID, got[0].Rank)
	}
	// b and c both rank as zero and tie at 2, preserving input order.
	if got[1].Item.userID != "b" || got[1].Rank != 2 {
		t.Fatalf("second row = %q rank %d, want b rank 2", got[1].Item.userID, got[1].Rank)
	}
	if got[2].Item.userID != "c" || got[2].Rank != 2 {
		t.Fatalf("third row = %q rank %d, want c rank 2", got[2].Item.userID, got[2].Rank)
	}
}

func TestRanksEmptyInput(t *testing.T) {
	t.Parallel()

	got := Ranks(nil, scoreOf)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestRanksAllTied(t *testing.T) {
	t.Parallel()

	rows := []row{
		{userID: "a", score: intp(7)},
		{userID: "b", score: intp(7)},
		{userID: "c", score: intp(7)},
	}

	for i, ranked := range Ranks(rows, scoreOf) {
		if ranked.Rank != 1 {
			t.Fatalf("row %d: rank = %d, want 1", i, ranked.Rank)
		}
	}
}

func TestRanksWithChangeMovement(t *testing.T) {
	t.Parallel()

	rows := []row{
		{userID: "a", score: intp(50), previous: intp(30)},
		{userID: "b", score: intp(45), previous: intp(40)},
		{userID: "c", score: intp(40), previous: intp(20)},
	}

	ranked := Ranks(rows, scoreOf)
	got := RanksWithChange(ranked, previousOf, rowIdentity)

	// Previously b(40) > a(30) > c(20); now a > b > c.
	wantChanges := map[string]int{"a": 1, "b": -1, "c": 0}
	for _, rc := range got {
		if rc.Change != wantChanges[rc.Item.userID] {
			t.Fatalf("user %q: change = %d, want %d", rc.Item.userID, rc.Change, wantChanges[rc.Item.userID])
		}
	}
}

func TestRanksWithChangeAllMissingPrevious(t *testing.T) {
	t.Parallel()

	rows := []row{
		{userID: "a", score: intp(50)},
		{userID: "b", score: intp(45)},
		{userID: "c", score: intp(40)},
	}

	ranked := Ranks(rows, scoreOf)
	got := RanksWithChange(ranked, previousOf, rowIdentity)

	// All previously tied at zero, so everyone was rank 1.
	wantChanges := map[string]int{"a": 0, "b": -1, "c": -2}
	for _, rc := range got {
		if rc.Change != wantChanges[rc.Item.userID] {
			t.Fatalf("user %q: change = %d, want %d", rc.Item.userID, rc.Change, wantChanges[rc.Item.userID])
		}
	}
}

func TestRanksWithChangeUnmatchedIdentity(t *testing.T) {
	t.Parallel()

	rows := []row{
		{userID: "a", score: intp(50), previous: intp(10)},
		{userID: "", score: intp(45), previous: intp(99)},
	}

	ranked := Ranks(rows, scoreOf)
	got := RanksWithChange(ranked, previousOf, rowIdentity)

	for _, rc := range got {
		if rc.Item.userID == "" && rc.Change != 0 {
			t.Fatalf("empty-identity row should carry no change, got %d", rc.Change)
		}
	}
}

func TestIdentityFallbackOrder(t *testing.T) {
	t.Parallel()

	type entry struct {
		uid      string
		username string
	}

	resolve := Identity(
		func(e entry) (string, bool) { return e.uid, e.uid != "" },
		func(e entry) (string, bool) { return e.username, e.username != "" },
	)

	if got := resolve(entry{uid: "u1", username: "ignored"}); got != "u1" {
		t.Fatalf("identity = %q, want u1", got)
	}
	if got := resolve(entry{username: "fallback"}); got != "fallback" {
		t.Fatalf("identity = %q, want fallback", got)
	}
	if got := resolve(entry{}); got != "" {
		t.Fatalf("identity = %q, want empty", got)
	}
}
