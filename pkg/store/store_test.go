package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/penstroke/pkg/core/layout"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/synth"
	"github.com/matzehuels/penstroke/pkg/errors"
)

func testDoc(text string, created time.Time) *Document {
	res := &synth.Result{
		Canvas: layout.Canvas{Width: 1000, Height: 120},
		Paths:  []path.Descriptor{{Path: "M0,0 M480,45 L500,50", Color: "black", Width: 2}},
	}
	doc := NewDocument([]string{text}, res, []byte("<svg/>"))
	doc.CreatedAt = created
	return doc
}

func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	older := testDoc("older", base)
	newer := testDoc("newer", base.Add(time.Minute))
	for _, d := range []*Document{older, newer} {
		if err := s.Save(ctx, d); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Lines[0] != "older" || got.SVG != "<svg/>" || len(got.Paths) != 1 || got.Height != 120 {
		t.Errorf("Get returned %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("List order wrong: %v", list)
	}
	if list[0].SVG != "" {
		t.Error("List should omit svg")
	}
	if list, _ := s.List(ctx, 1); len(list) != 1 {
		t.Errorf("List(1) returned %d documents", len(list))
	}

	if err := s.Delete(ctx, older.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, older.ID); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Get after Delete = %v, want DOCUMENT_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, older.ID); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("second Delete = %v, want DOCUMENT_NOT_FOUND", err)
	}
	if _, err := s.Get(ctx, "../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Get(bad id) = %v, want INVALID_INPUT", err)
	}
	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("Get(unknown) = %v, want DOCUMENT_NOT_FOUND", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URL")
	if uri == "" {
		t.Skip("MONGO_URL not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "penstroke_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		s.Close()
	}()
	testStore(t, s)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := testDoc("x", time.Now())
	if err := s.Save(ctx, doc); err != nil {
		t.Fatal(err)
	}
	doc.Width = 1
	got, _ := s.Get(ctx, doc.ID)
	if got.Width != 1000 {
		t.Error("store aliased the saved document")
	}
}

func TestDocumentResult(t *testing.T) {
	doc := testDoc("x", time.Now())
	res := doc.Result()
	if res.Canvas.Width != 1000 || res.Canvas.Height != 120 || len(res.Paths) != 1 {
		t.Errorf("Result() = %+v", res)
	}
	if _, err := uuid.Parse(doc.ID); err != nil {
		t.Errorf("ID %q is not a uuid", doc.ID)
	}
}
