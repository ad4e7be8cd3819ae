// Package storage persists figure documents for the HTTP server.
//
// Figures are stored as their JSON encoding together with a content hash,
// so hover results can be cached per figure revision. Implementations:
//   - [MemoryStore]: in process memory, the default when no database is
//     configured
//   - [MongoStore]: a MongoDB collection
package storage

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/hoverfx/pkg/cache"
	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/figure"
)

// Record is a stored figure.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Body      string    `json:"-" bson:"body"`
	Revision  string    `json:"revision" bson:"revision"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Document decodes the stored figure.
func (r *Record) Document() (*figure.Document, error) {
	doc, err := figure.Read(bytes.NewReader([]byte(r.Body)), figure.FormatJSON)
	if err != nil {
		return nil, err
	}
	doc.ID = r.ID
	return doc, nil
}

// Store is the interface for figure storage backends.
type Store interface {
	// Get returns the record with the given ID, or a FIGURE_NOT_FOUND
	// error.
	Get(ctx context.Context, id string) (*Record, error)

	// Put creates or replaces the figure doc.ID and returns its record.
	Put(ctx context.Context, doc *figure.Document) (*Record, error)

	// Delete removes a figure, or returns a FIGURE_NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// List returns every record without bodies, newest first.
	List(ctx context.Context) ([]Record, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// NewRecord encodes doc into a record. An empty doc.ID gets a generated
// one.
func NewRecord(doc *figure.Document, now time.Time) (*Record, error) {
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := figure.Write(&buf, doc, figure.FormatJSON); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFigure, err, "encode figure %s", doc.ID)
	}
	return &Record{
		ID:        doc.ID,
		Title:     doc.Title,
		Body:      buf.String(),
		Revision:  cache.Hash(buf.Bytes())[:16],
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeFigureNotFound, "figure %q not found", id)
}
