package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/figure"
)

type fakeCollection struct {
	docs map[string]Record
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: make(map[string]Record)}
}

func idOf(filter any) string { return filter.(bson.M)["_id"].(string) }

func (c *fakeCollection) FindOne(ctx context.Context, filter any, _ ...*options.FindOneOptions) *mongo.SingleResult {
	rec, ok := c.docs[idOf(filter)]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(rec, nil, nil)
}

func (c *fakeCollection) Find(ctx context.Context, _ any, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	docs := make([]any, 0, len(c.docs))
	for _, rec := range c.docs {
		docs = append(docs, rec)
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (c *fakeCollection) ReplaceOne(ctx context.Context, filter, replacement any, _ ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	c.docs[idOf(filter)] = *replacement.(*Record)
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (c *fakeCollection) DeleteOne(ctx context.Context, filter any, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	id := idOf(filter)
	if _, ok := c.docs[id]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(c.docs, id)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

func doc(t *testing.T, id string) *figure.Document {
	t.Helper()
	d, err := figure.Read(strings.NewReader(`{
	  "title": "latency",
	  "traces": [{"name": "p50", "x": [1, 2, 3], "y": [12, 9, 15]}]
	}`), figure.FormatJSON)
	require.NoError(t, err)
	d.ID = id
	return d
}

func stores() map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"mongo":  NewMongoStoreFromCollection(newFakeCollection()),
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			defer s.Close(ctx)

			_, err := s.Get(ctx, "nope")
			assert.True(t, errors.Is(err, errors.ErrCodeFigureNotFound))

			rec, err := s.Put(ctx, doc(t, "fig-1"))
			require.NoError(t, err)
			assert.Equal(t, "fig-1", rec.ID)
			assert.Equal(t, "latency", rec.Title)
			assert.Len(t, rec.Revision, 16)

			got, err := s.Get(ctx, "fig-1")
			require.NoError(t, err)
			assert.Equal(t, rec.Revision, got.Revision)

			d, err := got.Document()
			require.NoError(t, err)
			assert.Equal(t, "fig-1", d.ID)
			require.Len(t, d.Traces, 1)
			assert.Equal(t, "p50", d.Traces[0].Name)

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Empty(t, list[0].Body)

			require.NoError(t, s.Delete(ctx, "fig-1"))
			assert.True(t, errors.Is(s.Delete(ctx, "fig-1"), errors.ErrCodeFigureNotFound))
		})
	}
}

func TestPutGeneratesID(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores() {
		t.Run(name, func(t *testing.T) {
			rec, err := s.Put(ctx, doc(t, ""))
			require.NoError(t, err)
			assert.NoError(t, errors.ValidateID(rec.ID))
		})
	}
}

func TestPutRevisionFollowsContent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	first, err := s.Put(ctx, doc(t, "fig"))
	require.NoError(t, err)

	changed := doc(t, "fig")
	changed.Title = "latency v2"
	second, err := s.Put(ctx, changed)
	require.NoError(t, err)

	assert.NotEqual(t, first.Revision, second.Revision)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestPutRejectsInvalidFigure(t *testing.T) {
	d := doc(t, "../escape")
	_, err := NewMemoryStore().Put(context.Background(), d)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidID))
}
