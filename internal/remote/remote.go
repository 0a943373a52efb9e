// Package remote abstracts the remote backup store: an eventually
// consistent document store laid out as users/{uid}/{collection}/{docID}
// with optional field-level merge on write.
package remote

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by every call on the Unconfigured store.
var ErrNotConfigured = errors.New("no remote backup store configured")

// Document is one remote document: its id plus decoded fields.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// String returns the named field as a string, or fallback when the field
// is missing or not a string.
func (d Document) String(field, fallback string) string {
	if v, ok := d.Fields[field].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Int returns the named field as an int, tolerating the numeric types
// JSON decoding produces. Missing or malformed fields yield zero.
func (d Document) Int(field string) int {
	switch v := d.Fields[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// StringMap returns the named field as map[string]int, tolerating
// JSON-decoded numeric values. Missing or malformed fields yield an
// empty map.
func (d Document) StringMap(field string) map[string]int {
	out := map[string]int{}
	raw, ok := d.Fields[field].(map[string]interface{})
	if !ok {
		return out
	}
	for k, v := range raw {
		switch n := v.(type) {
		case int:
			out[k] = n
		case int64:
			out[k] = int(n)
		case float64:
			out[k] = int(n)
		}
	}
	return out
}

// StringSlice returns the named field as []string, dropping non-string
// elements. Missing or malformed fields yield nil.
func (d Document) StringSlice(field string) []string {
	raw, ok := d.Fields[field].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Store is the remote backup store. Get fetches every document in a
// user's collection; Set writes one document, merging into existing
// fields when merge is true and replacing them otherwise.
type Store interface {
	Get(ctx context.Context, uid, collection string) ([]Document, error)
	Set(ctx context.Context, uid, collection, docID string, fields map[string]interface{}, merge bool) error
}

// Unconfigured is the Store used when no remote backend has been set up.
// Every call fails with ErrNotConfigured; the sync engine treats that as
// a transient remote failure.
type Unconfigured struct{}

func (Unconfigured) Get(ctx context.Context, uid, collection string) ([]Document, error) {
	return nil, ErrNotConfigured
}

func (Unconfigured) Set(ctx context.Context, uid, collection, docID string, fields map[string]interface{}, merge bool) error {
	return ErrNotConfigured
}
