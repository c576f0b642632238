package persist

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDraftCRUD(t *testing.T) {
	s := newTestStore(t)

	created, err := s.SaveDraft(Draft{Title: "Letter", Body: "Dear all,", Template: "business-letter"})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("new draft has no id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set on insert")
	}

	got, err := s.GetDraft(created.ID)
	if err != nil {
		t.Fatalf("GetDraft failed: %v", err)
	}
	if got.Title != "Letter" || got.Body != "Dear all," || got.Template != "business-letter" {
		t.Errorf("loaded draft = %+v", got)
	}

	created.Body = "Dear team,"
	updated, err := s.SaveDraft(created)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("update changed id: %q -> %q", created.ID, updated.ID)
	}
	got, err = s.GetDraft(created.ID)
	if err != nil {
		t.Fatalf("GetDraft after update failed: %v", err)
	}
	if got.Body != "Dear team," {
		t.Errorf("body = %q after update", got.Body)
	}

	if err := s.DeleteDraft(created.ID); err != nil {
		t.Fatalf("DeleteDraft failed: %v", err)
	}
	if _, err := s.GetDraft(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDraft after delete = %v, want ErrNotFound", err)
	}
}

func TestSaveDraftUnknownID(t *testing.T) {
	s := newTestStore(t)
	_, err := s.SaveDraft(Draft{ID: "missing", Title: "x", Body: "y"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteDraftUnknownID(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteDraft("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListDraftsOrder(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveDraft(Draft{Title: "first", Body: "a"})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	second, err := s.SaveDraft(Draft{Title: "second", Body: "b"})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	// Backdate the first draft so ordering does not depend on
	// sub-second timestamp resolution.
	backdated := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE drafts SET updated_at = ? WHERE id = ?`, backdated, first.ID); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	drafts, err := s.ListDrafts()
	if err != nil {
		t.Fatalf("ListDrafts failed: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	if drafts[0].ID != second.ID || drafts[1].ID != first.ID {
		t.Errorf("order = [%s %s], want most recent first", drafts[0].Title, drafts[1].Title)
	}
}

func TestPruneDraftsBefore(t *testing.T) {
	s := newTestStore(t)

	stale, err := s.SaveDraft(Draft{Title: "stale", Body: "old"})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
	fresh, err := s.SaveDraft(Draft{Title: "fresh", Body: "new"})
	if err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}

	old := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE drafts SET updated_at = ? WHERE id = ?`, old, stale.ID); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	n, err := s.PruneDraftsBefore(time.Now().UTC().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneDraftsBefore failed: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d drafts, want 1", n)
	}
	if _, err := s.GetDraft(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale draft survived prune: %v", err)
	}
	if _, err := s.GetDraft(fresh.ID); err != nil {
		t.Errorf("fresh draft pruned: %v", err)
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSetting("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := s.PutSetting("theme", "dark"); err != nil {
		t.Fatalf("PutSetting failed: %v", err)
	}
	got, err := s.GetSetting("theme")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if got != "dark" {
		t.Errorf("value = %q, want dark", got)
	}

	if err := s.PutSetting("theme", "light"); err != nil {
		t.Fatalf("PutSetting overwrite failed: %v", err)
	}
	got, _ = s.GetSetting("theme")
	if got != "light" {
		t.Errorf("value = %q after overwrite, want light", got)
	}
}

func TestStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "inkwell.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	if _, err := s.SaveDraft(Draft{Title: "t", Body: "b"}); err != nil {
		t.Fatalf("SaveDraft failed: %v", err)
	}
}
