// Package store keeps source collections as serialized lists under fixed storage keys.
// Each collection is read and written as a whole, the way the dashboard pages expect it.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/umputun/sourcedeck/pkg/domain"
)

// ErrUnreadable is returned together with an empty collection when the stored value can't be decoded
var ErrUnreadable = errors.New("stored collection is unreadable")

// KV is a string-keyed value storage
type KV interface {
	GetValue(ctx context.Context, key string) (value string, found bool, err error)
	SetValue(ctx context.Context, key, value string) error
}

// Collection is the ordered list of sources stored under one key in one layout
type Collection struct {
	kv         KV
	key        string
	layout     Layout
	sourceType domain.SourceType
	fileURL    func(id string) string
}

// Option customizes a Collection
type Option func(c *Collection)

// WithFileURL sets the function building download links written into file-based layouts
func WithFileURL(fn func(id string) string) Option {
	return func(c *Collection) { c.fileURL = fn }
}

// NewCollection makes a collection of sources of type t stored under key
func NewCollection(kv KV, key string, layout Layout, t domain.SourceType, opts ...Option) *Collection {
	res := &Collection{kv: kv, key: key, layout: layout, sourceType: t}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Key returns the storage key of the collection
func (c *Collection) Key() string { return c.key }

// Load reads the whole collection. Absent key means an empty collection.
// Undecodable values give an empty collection and an error wrapping ErrUnreadable.
// Records stored without an id get one derived from the key and their position,
// it becomes persistent with the next write of the collection. Load itself never writes.
func (c *Collection) Load(ctx context.Context) ([]domain.Source, error) {
	value, found, err := c.kv.GetValue(ctx, c.key)
	if err != nil {
		return []domain.Source{}, fmt.Errorf("get %s: %w", c.key, err)
	}
	if !found || value == "" {
		return []domain.Source{}, nil
	}

	list, err := c.layout.decode([]byte(value), c.sourceType)
	if err != nil {
		return []domain.Source{}, fmt.Errorf("%w: %s: %v", ErrUnreadable, c.key, err)
	}

	for i := range list {
		if list[i].ID == "" {
			list[i].ID = domain.LegacyID(c.key, i)
		}
	}
	return list, nil
}

// Save replaces the stored collection with list. An empty list is stored as [].
func (c *Collection) Save(ctx context.Context, list []domain.Source) error {
	data, err := c.layout.encode(list, c.fileURL)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.kv.SetValue(ctx, c.key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", c.key, err)
	}
	return nil
}
