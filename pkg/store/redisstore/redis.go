package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps each document in a redis hash keyed "collection:id", with every
// field JSON encoded. Counter fields are plain integers so HINCRBY stays
// atomic across instances.
type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func key(collection, id string) string {
	return collection + ":" + id
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (map[string]interface{}, bool, error) {
	raw, err := s.rdb.HGetAll(ctx, key(collection, id)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}

	doc := make(map[string]interface{}, len(raw))
	for field, value := range raw {
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			// Counter fields written by HINCRBY are bare integers, which
			// json handles; anything else unparseable stays a string.
			doc[field] = value
			continue
		}
		doc[field] = decoded
	}
	return doc, true, nil
}

func (s *Store) SetDocument(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	fields := make(map[string]interface{}, len(doc))
	for field, value := range doc {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", field, err)
		}
		fields[field] = string(encoded)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(collection, id))
	pipe.HSet(ctx, key(collection, id), fields)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, collection, id, field string) (int64, error) {
	n, err := s.rdb.HIncrBy(ctx, key(collection, id), field, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	return n, nil
}
