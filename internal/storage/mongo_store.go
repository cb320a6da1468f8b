package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rewear/backend/internal/filter"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(ctx context.Context, mongoURI, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &MongoStore{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// EnsureIndexes creates ascending single-field indexes on collection.
// Failures are returned but callers may treat them as best-effort.
func (s *MongoStore) EnsureIndexes(ctx context.Context, collection string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, len(fields))
	for i, f := range fields {
		models[i] = mongo.IndexModel{Keys: bson.D{{Key: f, Value: 1}}}
	}
	_, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models)
	return err
}

func (s *MongoStore) CreateDocument(ctx context.Context, collection string, doc Document) (ID, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", err
	}
	return idFromBSON(res.InsertedID), nil
}

func (s *MongoStore) GetDocuments(ctx context.Context, collection string, f filter.Expr, limit int) ([]Record, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.db.Collection(collection).Find(ctx, BSONFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]Record, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		id := idFromBSON(raw["_id"])
		delete(raw, "_id")

		fields := make(Document, len(raw))
		for k, v := range raw {
			fields[k] = plainValue(v)
		}
		out = append(out, Record{ID: id, Fields: fields})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) CollectionNames(ctx context.Context) ([]string, error) {
	return s.db.ListCollectionNames(ctx, bson.D{})
}

func (s *MongoStore) Name() string {
	return s.db.Name()
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func idFromBSON(v any) ID {
	switch id := v.(type) {
	case primitive.ObjectID:
		return ID(id.Hex())
	case string:
		return ID(id)
	case nil:
		return ""
	}
	return ID(fmt.Sprint(v))
}

// plainValue converts driver container and date types to the plain Go types
// other stores produce, so callers can type-switch on []any and map[string]any.
func plainValue(v any) any {
	switch x := v.(type) {
	case primitive.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plainValue(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return x.Hex()
	}
	return v
}
