package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	boltBucket     = "season_averages"
	expiryPrefixSz = 8
)

// BoltCache persists values in a single bbolt bucket. Each value is prefixed with
// its expiry as unix nanoseconds (0 means no expiry).
type BoltCache struct {
	db  *bbolt.DB
	now func() time.Time
}

// OpenBolt opens or creates the database file at path.
func OpenBolt(path string) (*BoltCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt cache: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltCache{db: db, now: time.Now}, nil
}

func (c *BoltCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		value   []byte
		found   bool
		expired bool
	)
	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if len(raw) < expiryPrefixSz {
			return nil
		}
		expiry := int64(binary.BigEndian.Uint64(raw[:expiryPrefixSz]))
		if expiry != 0 && c.now().UnixNano() >= expiry {
			expired = true
			return nil
		}
		// bbolt memory is only valid inside the transaction.
		value = append([]byte{}, raw[expiryPrefixSz:]...)
		found = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt get %s: %w", key, err)
	}
	if expired {
		_ = c.delete(key)
		return nil, ErrMiss
	}
	if !found {
		return nil, ErrMiss
	}
	return value, nil
}

func (c *BoltCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var expiry int64
	if ttl > 0 {
		expiry = c.now().Add(ttl).UnixNano()
	}
	raw := make([]byte, expiryPrefixSz+len(value))
	binary.BigEndian.PutUint64(raw[:expiryPrefixSz], uint64(expiry))
	copy(raw[expiryPrefixSz:], value)

	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("bolt set %s: %w", key, err)
	}
	return nil
}

func (c *BoltCache) delete(key string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

func (c *BoltCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
