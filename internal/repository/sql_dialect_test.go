package repository

import (
	"testing"
)

func TestDBDialectNameDefaultsToSQLite(t *testing.T) {
	if got := dbDialectName(nil); got != "sqlite" {
		t.Fatalf("nil db dialect want sqlite got %s", got)
	}
}

func TestIsPostgresDialect(t *testing.T) {
	for _, name := range []string{"postgres", " PostgreSQL "} {
		if !isPostgresDialect(name) {
			t.Fatalf("%q should be postgres", name)
		}
	}
	if isPostgresDialect("sqlite") {
		t.Fatalf("sqlite should not be postgres")
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	got := containsPattern(`100%_Go\`)
	want := `%100\%\_go\\%`
	if got != want {
		t.Fatalf("pattern mismatch, want %s got %s", want, got)
	}
	cond := containsFoldedCondition("search_key")
	if cond != `search_key LIKE ? ESCAPE '\'` {
		t.Fatalf("unexpected condition: %s", cond)
	}
}
