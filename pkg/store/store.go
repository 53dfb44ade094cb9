// Package store persists rendered handwriting documents.
//
// A [Document] keeps the input lines together with the laid-out paths and
// the rendered SVG, so a drawing can be listed, fetched and re-served without
// calling the model again. Backends:
//
//   - [MemoryStore]: in-process map, for development and tests
//   - [FileStore]: one JSON file per document, for the CLI
//   - [MongoStore]: a MongoDB collection, for the HTTP server
//
// Document IDs are random UUIDs. Lookups of unknown IDs fail with the
// DOCUMENT_NOT_FOUND code; malformed IDs fail with INVALID_INPUT.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/penstroke/pkg/core/layout"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/synth"
	"github.com/matzehuels/penstroke/pkg/errors"
)

// DefaultListLimit caps List results when no limit is given.
const DefaultListLimit = 50

// Document is a stored handwriting rendering.
type Document struct {
	ID        string            `json:"id" bson:"_id"`
	Lines     []string          `json:"lines" bson:"lines"`
	Width     int               `json:"width" bson:"width"`
	Height    int               `json:"height" bson:"height"`
	Paths     []path.Descriptor `json:"paths" bson:"paths"`
	SVG       string            `json:"svg,omitempty" bson:"svg,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
}

// NewDocument creates a document with a fresh ID for a synthesis result.
func NewDocument(lines []string, res *synth.Result, svg []byte) *Document {
	return &Document{
		ID:        uuid.NewString(),
		Lines:     append([]string(nil), lines...),
		Width:     res.Canvas.Width,
		Height:    res.Canvas.Height,
		Paths:     append([]path.Descriptor(nil), res.Paths...),
		SVG:       string(svg),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Result returns the synthesis result stored in the document.
func (d *Document) Result() *synth.Result {
	paths := d.Paths
	if paths == nil {
		paths = []path.Descriptor{}
	}
	return &synth.Result{
		Canvas: layout.Canvas{Width: d.Width, Height: d.Height},
		Paths:  paths,
	}
}

// Store is the interface for document storage backends.
type Store interface {
	// Save inserts or replaces a document.
	Save(ctx context.Context, doc *Document) error

	// Get returns the document with the given ID.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns up to limit documents, newest first.
	List(ctx context.Context, limit int) ([]*Document, error)

	// Delete removes a document.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// ValidateID checks that id is a well-formed document ID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid document id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
