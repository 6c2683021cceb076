package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// KeyExportDate is added to exported documents and skipped on import.
const KeyExportDate = "export_date"

// Export returns every key of the store as one pretty-printed JSON
// document stamped with now.
func (s *Store) Export(now time.Time) ([]byte, error) {
	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	doc := []byte("{}")
	for _, key := range keys {
		var raw json.RawMessage
		if _, err := s.Get(key, &raw); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetRawBytes(doc, key, raw); err != nil {
			return nil, fmt.Errorf("export %s: %w", key, err)
		}
	}
	doc, err = sjson.SetBytes(doc, KeyExportDate, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return pretty.Pretty(doc), nil
}

// Import loads a document produced by Export. Keys in data overwrite the
// stored ones; with replace, everything else is dropped first. It returns
// the imported keys.
func (s *Store) Import(data []byte, replace bool) ([]string, error) {
	if !isObject(data) {
		return nil, ErrCorrupt
	}
	var keys []string
	var invalid error
	gjson.ParseBytes(data).ForEach(func(k, _ gjson.Result) bool {
		if k.String() == KeyExportDate {
			return true
		}
		if err := validateKey(k.String()); err != nil {
			invalid = err
			return false
		}
		keys = append(keys, k.String())
		return true
	})
	if invalid != nil {
		return nil, invalid
	}

	if replace {
		if err := s.Clear(); err != nil {
			return nil, err
		}
	}
	for _, key := range keys {
		raw := json.RawMessage(gjson.GetBytes(data, key).Raw)
		if err := s.Set(key, raw); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
