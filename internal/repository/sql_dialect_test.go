package repository

import "testing"

func TestLikeOperatorByDialect(t *testing.T) {
	cases := []struct {
		dialect string
		want    string
	}{
		{"sqlite", "LIKE"},
		{"postgres", "ILIKE"},
		{"postgresql", "ILIKE"},
		{" Postgres ", "ILIKE"},
		{"", "LIKE"},
		{"mysql", "LIKE"},
	}
	for _, item := range cases {
		if got := likeOperatorByDialect(item.dialect); got != item.want {
			t.Fatalf("dialect %q: want %s got %s", item.dialect, item.want, got)
		}
	}
}

func TestLikeConditionDefaultsToSqlite(t *testing.T) {
	if got := likeCondition(nil, "name"); got != "name LIKE ?" {
		t.Fatalf("unexpected condition: %s", got)
	}
}
