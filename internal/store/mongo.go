// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/pkg/types"
)

// MongoStore inserts documents into a MongoDB collection. The client is
// scoped to each Insert call and disconnected on every exit path.
type MongoStore struct {
	cfg    types.StoreConfig
	logger *zap.Logger
}

// Insert connects to the configured MongoDB deployment, writes doc, and
// returns the hex form of the assigned ObjectID. An unreachable server
// maps to ErrConnection; a failed write to ErrStore.
func (s *MongoStore) Insert(ctx context.Context, doc any) (string, error) {
	opts := options.Client().ApplyURI(s.cfg.URI)
	if s.cfg.Timeout > 0 {
		opts.SetConnectTimeout(s.cfg.Timeout)
		opts.SetServerSelectionTimeout(s.cfg.Timeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer func() {
		// Disconnect must run even when the surrounding context is
		// already cancelled.
		if derr := client.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			s.logger.Warn("disconnecting store client", zap.Error(derr))
		}
	}()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}

	coll := client.Database(s.cfg.Database).Collection(s.cfg.Collection)
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStore, err)
	}

	s.logger.Info("document stored",
		zap.String("database", s.cfg.Database),
		zap.String("collection", s.cfg.Collection))

	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}
