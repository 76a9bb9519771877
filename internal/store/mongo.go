// Package store persists canonical records to MongoDB.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"sheetimport/internal/config"
	"sheetimport/internal/core"
)

// Mongo is the document store backing the import pipeline. It satisfies
// core.Store.
type Mongo struct {
	client       *mongo.Client
	coll         *mongo.Collection
	writeTimeout time.Duration
}

// document is the persisted shape of a record: the canonical fields plus
// write timestamps.
type document struct {
	core.Record `bson:",inline"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// Connect establishes and verifies a MongoDB connection using cfg. The
// connect and ping together are bounded by cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Mongo{
		client:       client,
		coll:         client.Database(cfg.Database).Collection(cfg.Collection),
		writeTimeout: cfg.WriteTimeout,
	}, nil
}

// InsertRecords writes the batch with a single InsertMany. A failure fails
// the whole batch; partial results are not reported.
func (m *Mongo) InsertRecords(ctx context.Context, records []core.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]any, len(records))
	for i, rec := range records {
		docs[i] = document{Record: rec, CreatedAt: now, UpdatedAt: now}
	}

	ctx, cancel := context.WithTimeout(ctx, m.writeTimeout)
	defer cancel()

	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %d records: %w", len(records), err)
	}
	return nil
}

// Ping verifies the store is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the store.
func (m *Mongo) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
