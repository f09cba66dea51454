package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/pydocs-scraper/pkg/log"
	"github.com/Sriram-PR/pydocs-scraper/pkg/models"
	"github.com/Sriram-PR/pydocs-scraper/pkg/utils"
)

const (
	responseKeyPrefix = "resp:"      // Prefix for cached response keys in DB
	cacheDBDir        = "http_cache" // Subdirectory name within the cache dir for Badger DB files
)

// BadgerStore implements the CacheStore interface using BadgerDB
type BadgerStore struct {
	db       *badger.DB
	log      *logrus.Entry
	keyCount atomic.Int64 // Cached key count for O(1) Count
}

// NewBadgerStore opens (or creates) the response cache under cacheDir
func NewBadgerStore(cacheDir string, logger *logrus.Entry) (*BadgerStore, error) {
	store := &BadgerStore{log: logger}

	dbPath := filepath.Join(cacheDir, cacheDBDir)
	logger.Debugf("Opening response cache at: %s", dbPath)

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("%w: cannot create cache directory %s: %w", utils.ErrFilesystem, dbPath, err)
	}

	badgerLogger := log.NewBadgerLogrusAdapter(logger.WithField("component", "badgerdb"))
	opts := badger.DefaultOptions(dbPath).
		WithLogger(badgerLogger).
		WithNumVersionsToKeep(1) // Only the latest response per request matters

	var err error
	store.db, err = badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger database at %s: %w", utils.ErrDatabase, dbPath, err)
	}

	count, err := store.countKeys()
	if err != nil {
		logger.Warnf("Failed to count cached responses: %v", err)
	} else {
		store.keyCount.Store(int64(count))
	}

	logger.Debugf("Response cache ready with %d entries.", count)
	return store, nil
}

// countKeys performs a one-time full key scan (used only during initialization).
func (s *BadgerStore) countKeys() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(responseKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

const maxConflictRetries = 10

// dbUpdate wraps db.Update with a retry loop for BadgerDB transaction conflicts.
// Concurrent detail-page fetches may write overlapping keys; conflicts resolve in microseconds.
func (s *BadgerStore) dbUpdate(fn func(txn *badger.Txn) error) error {
	for i := range maxConflictRetries {
		err := s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		s.log.Debugf("BadgerDB transaction conflict (attempt %d/%d), retrying", i+1, maxConflictRetries)
	}
	return fmt.Errorf("%w: transaction conflict not resolved after %d retries", utils.ErrDatabase, maxConflictRetries)
}

func cacheKey(method, rawURL string) []byte {
	return []byte(responseKeyPrefix + utils.RequestKey(method, rawURL))
}

// Get implements the ResponseCache interface.
// An undecodable entry is reported as a miss so the caller refetches and overwrites it.
func (s *BadgerStore) Get(method, rawURL string) (*models.CachedResponse, bool, error) {
	var entry *models.CachedResponse
	key := cacheKey(method, rawURL)

	errView := s.db.View(func(txn *badger.Txn) error {
		item, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			return nil
		}
		if errGet != nil {
			return fmt.Errorf("%w: failed getting cache key for '%s': %w", utils.ErrDatabase, rawURL, errGet)
		}

		return item.Value(func(val []byte) error {
			var decoded models.CachedResponse
			if errJson := json.Unmarshal(val, &decoded); errJson != nil {
				s.log.Warnf("Failed to unmarshal cached response for '%s': %v. Treating as miss.", rawURL, errJson)
				return nil
			}
			entry = &decoded
			return nil
		})
	})

	if errView != nil {
		s.log.Errorf("DB View error in Get for '%s': %v", rawURL, errView)
		return nil, false, errView
	}
	return entry, entry != nil, nil
}

// Put implements the ResponseCache interface
func (s *BadgerStore) Put(method, rawURL string, resp *models.CachedResponse) error {
	if s.db == nil {
		return errors.New("response cache not initialized")
	}
	key := cacheKey(method, rawURL)

	entryBytes, errJson := json.Marshal(resp)
	if errJson != nil {
		wrappedErr := fmt.Errorf("%w: failed to marshal cached response for '%s': %w", utils.ErrParsing, rawURL, errJson)
		s.log.Error(wrappedErr)
		return wrappedErr
	}

	isNew := false
	err := s.dbUpdate(func(txn *badger.Txn) error {
		_, errGet := txn.Get(key)
		if errors.Is(errGet, badger.ErrKeyNotFound) {
			isNew = true
		}
		return txn.SetEntry(badger.NewEntry(key, entryBytes))
	})

	if err != nil {
		s.log.WithField("url", rawURL).Errorf("DB Update error in Put: %v", err)
		return fmt.Errorf("%w: failed caching response for '%s': %w", utils.ErrDatabase, rawURL, err)
	}
	if isNew {
		s.keyCount.Add(1)
	}

	s.log.Debugf("Cached %s %s (%d bytes)", method, rawURL, len(resp.Body))
	return nil
}

// Clear implements the ResponseCache interface
func (s *BadgerStore) Clear() error {
	before := s.keyCount.Load()
	if err := s.db.DropAll(); err != nil {
		s.log.Errorf("Failed to clear response cache: %v", err)
		return fmt.Errorf("%w: clearing response cache: %w", utils.ErrDatabase, err)
	}
	s.keyCount.Store(0)
	s.log.Infof("Response cache cleared (%d entries removed).", before)
	return nil
}

// Count implements the ResponseCache interface.
// Returns the cached key count (O(1)) maintained by atomic increments on writes.
func (s *BadgerStore) Count() (int, error) {
	return int(s.keyCount.Load()), nil
}

// WriteIndex implements the CacheStore interface.
func (s *BadgerStore) WriteIndex(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		s.log.Errorf("Failed create cache index '%s': %v", filePath, err)
		return fmt.Errorf("%w: create cache index '%s': %w", utils.ErrFilesystem, filePath, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	var writeErr error
	writtenCount := 0

	iterErr := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		prefix := []byte(responseKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			errValue := item.Value(func(val []byte) error {
				var entry models.CachedResponse
				if errJson := json.Unmarshal(val, &entry); errJson != nil {
					s.log.Warnf("Skipping undecodable cache entry %s: %v", string(item.Key()), errJson)
					return nil
				}
				if _, err := fmt.Fprintf(writer, "%s %s\n", entry.Method, entry.URL); err != nil && writeErr == nil {
					writeErr = err // Keep the first write error, continue if possible
				}
				writtenCount++
				return nil
			})
			if errValue != nil {
				return errValue
			}
		}
		return nil
	})

	if iterErr != nil {
		s.log.Errorf("Error during cache iteration for index: %v", iterErr)
		return fmt.Errorf("%w: iterating response cache: %w", utils.ErrDatabase, iterErr)
	}
	if flushErr := writer.Flush(); flushErr != nil && writeErr == nil {
		writeErr = flushErr
	}
	if writeErr != nil {
		return fmt.Errorf("%w: writing cache index '%s': %w", utils.ErrFilesystem, filePath, writeErr)
	}

	s.log.Infof("Wrote %d cached URLs to %s", writtenCount, filePath)
	return nil
}

// Close implements the CacheStore interface
func (s *BadgerStore) Close() error {
	if s.db != nil && !s.db.IsClosed() {
		s.log.Debug("Closing response cache...")
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing response cache: %v", err)
			return err
		}
		return nil
	}
	return nil
}
