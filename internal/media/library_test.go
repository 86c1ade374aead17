package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ballot-backend/internal/config"
	"ballot-backend/internal/metadata"
	"ballot-backend/internal/storage"
	"ballot-backend/internal/store"
)

func TestCategory(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":         "images",
		"PHOTO.JPG":         "images",
		"clip.mp4":          "videos",
		"speech.mp3":        "audios",
		"manifesto.pdf":     "files",
		"noextension":       "files",
		"/tmp/a/banner.png": "images",
	}
	for name, want := range cases {
		if got := Category(name); got != want {
			t.Fatalf("Category(%s): got %s, want %s", name, got, want)
		}
	}
}

func TestCheckAllowed(t *testing.T) {
	if err := checkAllowed("photo.jpg", []string{"images"}); err != nil {
		t.Fatalf("images should allow jpg: %v", err)
	}
	if err := checkAllowed("clip.mp4", []string{"images"}); err == nil {
		t.Fatal("images must reject mp4")
	}
	// No restriction means everything passes
	if err := checkAllowed("clip.mp4", nil); err != nil {
		t.Fatalf("empty allow list: %v", err)
	}
}

func testLibrary(t *testing.T) (*Library, *store.Store, context.Context) {
	t.Helper()
	ctx := context.Background()
	s, err := store.New(ctx, config.DatabaseConfig{
		Driver: "sqlite",
		Name:   "media_test",
		Path:   t.TempDir(),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	files := storage.NewLocalStorage(t.TempDir())
	return NewLibrary(s.Dialect, files), s, ctx
}

func TestFindOrImportFile(t *testing.T) {
	lib, s, ctx := testLibrary(t)
	user := &metadata.UserContext{ID: "user-1"}

	src := filepath.Join(t.TempDir(), "portrait.jpg")
	if err := os.WriteFile(src, []byte("jpegdata"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	// First reference imports the file
	row, err := lib.FindOrImportFile(ctx, s.DB, src, user, []string{"images"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	id, err := store.ToID(row["id"])
	if err != nil || id == 0 {
		t.Fatalf("expected numeric file id, got %v (%v)", row["id"], err)
	}
	if row["name"] != "portrait.jpg" {
		t.Fatalf("expected name portrait.jpg, got %v", row["name"])
	}

	// Same path resolves to the existing row instead of importing again
	again, err := lib.FindOrImportFile(ctx, s.DB, src, user, []string{"images"})
	if err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if againID, _ := store.ToID(again["id"]); againID != id {
		t.Fatalf("expected existing file %d, got %v", id, again["id"])
	}

	// Numeric reference looks up by id
	byID, err := lib.FindOrImportFile(ctx, s.DB, id, user, nil)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if byID["name"] != "portrait.jpg" {
		t.Fatalf("by id name: %v", byID["name"])
	}

	// Object references resolve through their name field
	byObj, err := lib.FindOrImportFile(ctx, s.DB, map[string]any{"name": "portrait.jpg"}, user, nil)
	if err != nil {
		t.Fatalf("by object: %v", err)
	}
	if objID, _ := store.ToID(byObj["id"]); objID != id {
		t.Fatalf("by object id: %v", byObj["id"])
	}
}

func TestFindOrImportFile_NumericRefChecksAllowedTypes(t *testing.T) {
	lib, s, ctx := testLibrary(t)
	user := &metadata.UserContext{ID: "user-1"}

	src := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(src, []byte("mp4data"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	row, err := lib.FindOrImportFile(ctx, s.DB, src, user, []string{"videos"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	id, err := store.ToID(row["id"])
	if err != nil {
		t.Fatalf("file id: %v", err)
	}

	// The stored file's category is enforced even when referenced by id
	if _, err := lib.FindOrImportFile(ctx, s.DB, id, user, []string{"images"}); err == nil {
		t.Fatal("expected error for mp4 referenced by an images-only attribute")
	}

	// The same id still resolves where videos are allowed
	if _, err := lib.FindOrImportFile(ctx, s.DB, id, user, []string{"videos", "images"}); err != nil {
		t.Fatalf("resolve by id: %v", err)
	}
}

func TestFindOrImportFile_Rejections(t *testing.T) {
	lib, s, ctx := testLibrary(t)

	// Unknown numeric id is an error, never a silent create
	if _, err := lib.FindOrImportFile(ctx, s.DB, int64(999), nil, nil); err == nil {
		t.Fatal("expected error for missing file id")
	}

	// Disallowed category is rejected before any lookup or import
	if _, err := lib.FindOrImportFile(ctx, s.DB, "clip.mp4", nil, []string{"images"}); err == nil {
		t.Fatal("expected error for disallowed file type")
	}

	// Allowed but nonexistent local path fails at import
	if _, err := lib.FindOrImportFile(ctx, s.DB, "ghost.jpg", nil, []string{"images"}); err == nil {
		t.Fatal("expected error for missing source file")
	}
}
