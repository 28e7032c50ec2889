package cachestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSKVStore persists the token cache in a NATS JetStream key-value bucket.
// Intended for hosts where the working directory is not durable; concurrent
// writers are still out of scope, last write wins.
type NATSKVStore struct {
	conn *nats.Conn
	kv   nats.KeyValue
	key  string
}

// NewNATSKVStore connects to the server and binds (or creates) the bucket.
func NewNATSKVStore(url, bucket, key string) (*NATSKVStore, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS %s: %w", url, err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "azapi token cache",
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket %s: %w", bucket, err)
	}

	return &NATSKVStore{conn: conn, kv: kv, key: key}, nil
}

// Load fetches the cache entry. A missing key yields an empty cache.
func (s *NATSKVStore) Load(ctx context.Context) ([]byte, error) {
	entry, err := s.kv.Get(s.key)
	if err != nil {
		return nil, nil
	}

	return entry.Value(), nil
}

// Save replaces the cache entry.
func (s *NATSKVStore) Save(ctx context.Context, data []byte) error {
	_, err := s.kv.Put(s.key, data)
	if err != nil {
		return fmt.Errorf("writing token cache to bucket: %w", err)
	}

	return nil
}

// Close releases the server connection.
func (s *NATSKVStore) Close() {
	s.conn.Close()
}
