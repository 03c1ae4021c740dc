package repository

import (
	"strings"
	"testing"
)

func TestRelationQueryJoinsOnlyLiveRelations(t *testing.T) {
	query := strings.ToLower(relationQuery)

	requiredFragments := []string{
		"left join rooms r on r.id = a.room_id and r.deleted_at is null",
		"left join customers c on c.id = a.customer_id and c.deleted_at is null",
		"left join users u on u.id = c.user_id and u.deleted_at is null",
	}

	for _, fragment := range requiredFragments {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected relation query fragment %q to be present", fragment)
		}
	}
}

func TestSortDirRejectsUnknownValues(t *testing.T) {
	if _, err := sortDir("asc"); err != nil {
		t.Fatalf("asc should be accepted: %v", err)
	}
	if _, err := sortDir("desc"); err != nil {
		t.Fatalf("desc should be accepted: %v", err)
	}
	if dir, err := sortDir(""); err != nil || dir != "ASC" {
		t.Fatalf("empty sort should default to ASC, got %q, %v", dir, err)
	}
	if _, err := sortDir("scheduled_at; DROP TABLE appointments"); err == nil {
		t.Fatal("unexpected sort value should be rejected")
	}
}
