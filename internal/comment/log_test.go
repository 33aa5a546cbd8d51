package comment

import (
	"context"
	"errors"
	"testing"

	"opengov/api/internal/identity"
	"opengov/api/internal/kv"
)

var author = identity.User{ID: "usr_1", Name: "Carla", Role: identity.RoleCitizen}

func TestAppendThenListRoundTrip(t *testing.T) {
	log := NewLog(kv.NewMemory())
	ctx := context.Background()

	appended, err := log.Append(ctx, "rpt_1", author, "  Still broken after the rain  ")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	comments, err := log.List(ctx, "rpt_1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	last := comments[len(comments)-1]
	if last.ID != appended.ID ||
		last.ReportID != "rpt_1" ||
		last.UserID != author.ID ||
		last.UserName != author.Name ||
		last.UserRole != author.Role ||
		last.Text != "  Still broken after the rain  " ||
		!last.CreatedAt.Equal(appended.CreatedAt) {
		t.Errorf("round trip lost fields: %+v vs %+v", last, appended)
	}
}

func TestAppendRejectsBlankText(t *testing.T) {
	log := NewLog(kv.NewMemory())

	if _, err := log.Append(context.Background(), "rpt_1", author, "   \n\t "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	comments, err := log.List(context.Background(), "rpt_1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected no comment persisted, got %d", len(comments))
	}
}

func TestAppendKeepsOrderPerReport(t *testing.T) {
	log := NewLog(kv.NewMemory())
	ctx := context.Background()

	officer := identity.User{ID: "usr_2", Name: "Avery", Role: identity.RoleAuthority}
	texts := []string{"first", "second", "third"}
	for _, text := range texts {
		if _, err := log.Append(ctx, "rpt_1", officer, text); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if _, err := log.Append(ctx, "rpt_2", officer, "unrelated"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	comments, err := log.List(ctx, "rpt_1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != len(texts) {
		t.Fatalf("expected %d comments, got %d", len(texts), len(comments))
	}
	for i, text := range texts {
		if comments[i].Text != text {
			t.Errorf("position %d: expected %q, got %q", i, text, comments[i].Text)
		}
	}
}

func TestListUnknownReportIsEmpty(t *testing.T) {
	log := NewLog(kv.NewMemory())

	comments, err := log.List(context.Background(), "rpt_none")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("expected empty list, got %d", len(comments))
	}
}

func TestAppendStorageFailure(t *testing.T) {
	store := kv.NewMemory()
	store.SetUnavailable(true)
	log := NewLog(store)

	if _, err := log.Append(context.Background(), "rpt_1", author, "text"); !errors.Is(err, kv.ErrUnavailable) {
		t.Errorf("expected kv.ErrUnavailable, got %v", err)
	}
}
