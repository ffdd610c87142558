// Package store persists refinement run records in MongoDB so server
// deployments can list and replay past runs. Persistence is optional;
// the pipeline works without a store and the CLI never requires one.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/neurite-tools/neurite/pkg/errors"
)

const runCollection = "refinement_runs"

// Run is one recorded refinement run. Level outputs themselves live in
// the cache; the store keeps the metadata needed to find and describe
// them.
type Run struct {
	ID         string    `bson:"_id"`
	CreatedAt  time.Time `bson:"created_at"`
	InputHash  string    `bson:"input_hash"`
	Delta      float64   `bson:"delta"`
	Levels     int       `bson:"levels"`
	Method     string    `bson:"method"`
	NodeCounts []int     `bson:"node_counts"`
	DurationMS int64     `bson:"duration_ms"`
}

// NewRunID generates a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store wraps a MongoDB database holding run records.
type Store struct {
	client *mongo.Client
	db     string
}

// New connects to the MongoDB instance at uri and verifies the
// connection with a ping.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &Store{client: client, db: database}, nil
}

// SaveRun inserts a run record.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	coll := s.client.Database(s.db).Collection(runCollection)
	if _, err := coll.InsertOne(ctx, run); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save run %s", run.ID)
	}
	return nil
}

// GetRun fetches a run record by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	coll := s.client.Database(s.db).Collection(runCollection)

	var run Run
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return Run{}, errors.New(errors.ErrCodeNotFound, "run %s not found", id)
	}
	if err != nil {
		return Run{}, errors.Wrap(errors.ErrCodeInternal, err, "get run %s", id)
	}
	return run, nil
}

// ListRuns returns the most recent run records, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	coll := s.client.Database(s.db).Collection(runCollection)

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	defer cursor.Close(ctx)

	var runs []Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode runs")
	}
	return runs, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
