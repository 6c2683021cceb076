// Package store is brewguide's local key-value journal: a single JSON
// document on disk whose top-level keys hold user data and records.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/brewguide/internal/debug"
)

// Well-known keys.
const (
	KeyUser           = "user"
	KeyBrewingRecords = "brewing_records"
	KeyTastingRecords = "tasting_records"
	KeyBeans          = "beans"
	KeyPreferences    = "preferences"
	KeyFirstLaunch    = "first_launch"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidKey is returned for keys that are empty or contain path syntax.
	ErrInvalidKey = errors.New("invalid key")
	// ErrCorrupt is returned when the store file is not a JSON object.
	ErrCorrupt = errors.New("store file is not a JSON object")
)

// Committer records a change to the store file, e.g. as a git commit.
type Committer interface {
	Commit(path, message string) error
}

// Option configures a Store.
type Option func(*Store)

// WithCommitter calls c after every successful write.
func WithCommitter(c Committer) Option {
	return func(s *Store) { s.committer = c }
}

// Store is a JSON document keyed by top-level names. It is safe for
// concurrent use within one process.
type Store struct {
	path      string
	committer Committer

	mu sync.Mutex
}

// Open opens the store at path, creating an empty one if needed.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.writeFile([]byte("{}")); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read store: %w", err)
	case !isObject(data):
		return nil, fmt.Errorf("%s: %w", path, ErrCorrupt)
	}
	return s, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Get decodes the value at key into v. It reports false if the key is absent.
func (s *Store) Get(key string, v any) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	res := gjson.GetBytes(data, key)
	if !res.Exists() {
		return false, nil
	}
	if err := json.Unmarshal([]byte(res.Raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores v as JSON under key.
func (s *Store) Set(key string, v any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.update("set "+key, func(data []byte) ([]byte, error) {
		return sjson.SetRawBytes(data, key, raw)
	})
}

// Append adds v to the array stored under key, creating it if needed.
func (s *Store) Append(key string, v any) error {
	if err := validateKey(key); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.update("append "+key, func(data []byte) ([]byte, error) {
		return appendRaw(data, key, raw)
	})
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.update("remove "+key, func(data []byte) ([]byte, error) {
		return sjson.DeleteBytes(data, key)
	})
}

// Clear removes every key.
func (s *Store) Clear() error {
	return s.update("clear", func([]byte) ([]byte, error) {
		return []byte("{}"), nil
	})
}

// Keys returns the top-level keys in document order.
func (s *Store) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	var keys []string
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys, nil
}

// query runs a gjson path against the current document.
func (s *Store) query(path string) (gjson.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(data, path), nil
}

// update applies fn to the document and persists the result.
func (s *Store) update(message string, fn func([]byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data, err = fn(data)
	if err != nil {
		return fmt.Errorf("%s: %w", message, err)
	}
	if err := s.writeFile(data); err != nil {
		return err
	}
	if s.committer != nil {
		if err := s.committer.Commit(s.path, "brewguide: "+message); err != nil {
			debug.Logf("store: commit failed: %v", err)
			return fmt.Errorf("commit journal: %w", err)
		}
	}
	return nil
}

func (s *Store) read() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if !isObject(data) {
		return nil, fmt.Errorf("%s: %w", s.path, ErrCorrupt)
	}
	return data, nil
}

// writeFile pretty-prints data and replaces the store file atomically.
func (s *Store) writeFile(data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pretty.Pretty(data)); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func appendRaw(data []byte, key string, raw []byte) ([]byte, error) {
	existing := gjson.GetBytes(data, key)
	if !existing.Exists() {
		return sjson.SetRawBytes(data, key, append(append([]byte("["), raw...), ']'))
	}
	if !existing.IsArray() {
		return nil, fmt.Errorf("%s is not an array", key)
	}
	return sjson.SetRawBytes(data, key+".-1", raw)
}

func isObject(data []byte) bool {
	return gjson.ValidBytes(data) && gjson.ParseBytes(data).IsObject()
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, ".*?#|@\\:!=<>%\"") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
