package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	modelBucketName = []byte("model")
	modelKey        = []byte("personality_nb")

	errModelNotCached = errors.New("model not cached")
)

// loadModel reads trained parameters from the bolt cache. errModelNotCached
// means a clean miss; anything else means an unreadable or corrupt cache.
func loadModel(path string) (*naiveBayes, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errModelNotCached
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("open model cache: %w", err)
	}
	defer db.Close()

	var m naiveBayes
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(modelBucketName)
		if bucket == nil {
			return errModelNotCached
		}
		raw := bucket.Get(modelKey)
		if raw == nil {
			return errModelNotCached
		}
		return json.Unmarshal(raw, &m)
	})
	if err != nil {
		return nil, err
	}

	if len(m.Classes) == 0 ||
		len(m.Priors) != len(m.Classes) ||
		len(m.Means) != len(m.Classes) ||
		len(m.Variances) != len(m.Classes) {
		return nil, errors.New("model cache corrupt")
	}
	for c := range m.Classes {
		if len(m.Means[c]) != numFeatures || len(m.Variances[c]) != numFeatures {
			return nil, errors.New("model cache corrupt")
		}
	}
	return &m, nil
}

// saveModel writes trained parameters to the bolt cache, creating the
// parent directory if needed.
func saveModel(path string, m *naiveBayes) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create model cache dir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open model cache: %w", err)
	}
	defer db.Close()

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	return db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(modelBucketName)
		if err != nil {
			return err
		}
		return bucket.Put(modelKey, raw)
	})
}
