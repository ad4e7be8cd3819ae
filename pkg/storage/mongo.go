package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/hoverfx/pkg/figure"
)

// CollectionName is the MongoDB collection figures are stored in.
const CollectionName = "figures"

// Collection is the subset of *mongo.Collection the store uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter, replacement any, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoStore keeps figures in a MongoDB collection, one document per
// figure keyed by its ID.
type MongoStore struct {
	coll       Collection
	disconnect func(context.Context) error
}

// NewMongoStore connects to uri and uses the figures collection of
// database.
func NewMongoStore(ctx context.Context, uri, database string, logger *log.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if logger != nil {
		logger.Info("connected to mongo", "database", database, "collection", CollectionName)
	}
	s := NewMongoStoreFromCollection(client.Database(database).Collection(CollectionName))
	s.disconnect = client.Disconnect
	return s, nil
}

// NewMongoStoreFromCollection creates a store on an existing collection.
func NewMongoStoreFromCollection(coll Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func byID(id string) bson.M { return bson.M{"_id": id} }

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, byID(id)).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find figure %s: %w", id, err)
	}
	return &rec, nil
}

func (s *MongoStore) Put(ctx context.Context, doc *figure.Document) (*Record, error) {
	rec, err := NewRecord(doc, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if old, err := s.Get(ctx, rec.ID); err == nil {
		rec.CreatedAt = old.CreatedAt
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, byID(rec.ID), rec, opts); err != nil {
		return nil, fmt.Errorf("store figure %s: %w", rec.ID, err)
	}
	return rec, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("delete figure %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.D{{Key: "body", Value: 0}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode figures: %w", err)
	}
	for i := range out {
		out[i].Body = ""
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.disconnect != nil {
		return s.disconnect(ctx)
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
