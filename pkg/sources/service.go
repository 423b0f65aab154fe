// Package sources implements the list pages: every page manages one collection of sources
// with search, add, edit and delete.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/umputun/sourcedeck/pkg/domain"
	"github.com/umputun/sourcedeck/pkg/store"
)

// ErrNotFound is returned for unknown pages and records
var ErrNotFound = errors.New("not found")

// Service runs page operations on top of a KV
type Service struct {
	kv    store.KV
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService makes a service storing collections in kv
func NewService(kv store.KV) *Service {
	return &Service{kv: kv, locks: map[string]*sync.Mutex{}}
}

// List returns the records of the page whose names contain query, case-insensitive.
// An unreadable collection gives an empty list with an error wrapping store.ErrUnreadable.
func (s *Service) List(ctx context.Context, page Page, query string) ([]domain.Source, error) {
	list, err := page.Collection(s.kv).Load(ctx)
	if err != nil {
		return list, err
	}
	return Filter(list, query), nil
}

// Get returns one record by id
func (s *Service) Get(ctx context.Context, page Page, id string) (domain.Source, error) {
	list, err := page.Collection(s.kv).Load(ctx)
	if err != nil {
		return domain.Source{}, err
	}
	for _, src := range list {
		if src.ID == id {
			return src, nil
		}
	}
	return domain.Source{}, fmt.Errorf("%w: %s in %s", ErrNotFound, id, page.StorageKey)
}

// Count returns the number of records of the page
func (s *Service) Count(ctx context.Context, page Page) (int, error) {
	list, err := page.Collection(s.kv).Load(ctx)
	return len(list), err
}

// Add appends src with a new id and persists the whole collection
func (s *Service) Add(ctx context.Context, page Page, src domain.Source) (domain.Source, error) {
	if err := checkRecord(page, src); err != nil {
		return domain.Source{}, err
	}

	unlock := s.lock(page.StorageKey)
	defer unlock()

	coll := page.Collection(s.kv)
	list, err := s.loadForWrite(ctx, coll)
	if err != nil {
		return domain.Source{}, err
	}
	src.ID = domain.NewID()
	list = append(list, src)
	if err := coll.Save(ctx, list); err != nil {
		return domain.Source{}, fmt.Errorf("add %s: %w", page.Slug, err)
	}
	log.Printf("[INFO] added %s source %q (%s)", src.Type, src.Name, src.ID)
	return src, nil
}

// Update replaces the record with the given id in place and persists the whole collection
func (s *Service) Update(ctx context.Context, page Page, id string, src domain.Source) (domain.Source, error) {
	if err := checkRecord(page, src); err != nil {
		return domain.Source{}, err
	}

	unlock := s.lock(page.StorageKey)
	defer unlock()

	coll := page.Collection(s.kv)
	list, err := coll.Load(ctx)
	if err != nil {
		return domain.Source{}, err
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return domain.Source{}, fmt.Errorf("%w: %s in %s", ErrNotFound, id, page.StorageKey)
	}
	src.ID = id
	list[idx] = src
	if err := coll.Save(ctx, list); err != nil {
		return domain.Source{}, fmt.Errorf("update %s: %w", page.Slug, err)
	}
	log.Printf("[INFO] updated %s source %q (%s)", src.Type, src.Name, id)
	return src, nil
}

// Delete removes the record with the given id and persists the whole collection
func (s *Service) Delete(ctx context.Context, page Page, id string) error {
	unlock := s.lock(page.StorageKey)
	defer unlock()

	coll := page.Collection(s.kv)
	list, err := coll.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, id, page.StorageKey)
	}
	list = append(list[:idx], list[idx+1:]...)
	if err := coll.Save(ctx, list); err != nil {
		return fmt.Errorf("delete from %s: %w", page.Slug, err)
	}
	log.Printf("[INFO] deleted source %s from %s", id, page.StorageKey)
	return nil
}

// Filter keeps the records whose names contain query, ignoring case. Empty query keeps all.
func Filter(list []domain.Source, query string) []domain.Source {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	res := make([]domain.Source, 0, len(list))
	for _, src := range list {
		if strings.Contains(strings.ToLower(src.Name), query) {
			res = append(res, src)
		}
	}
	return res
}

// loadForWrite reads the collection before adding to it.
// An unreadable value is replaced by the new collection, matching what the page shows.
func (s *Service) loadForWrite(ctx context.Context, coll *store.Collection) ([]domain.Source, error) {
	list, err := coll.Load(ctx)
	if errors.Is(err, store.ErrUnreadable) {
		log.Printf("[WARN] %v, starting %s over", err, coll.Key())
		return list, nil
	}
	return list, err
}

// lock serializes read-modify-write of one storage key inside the process
func (s *Service) lock(key string) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func checkRecord(page Page, src domain.Source) error {
	if src.Type != page.Type {
		return fmt.Errorf("%s source can't be stored on page %s", src.Type, page.Slug)
	}
	if err := src.Validate(); err != nil {
		return err
	}
	if page.RequireFile && src.File() == nil {
		return &domain.ValidationError{Fields: []string{"config.file"}}
	}
	return nil
}

func indexOf(list []domain.Source, id string) int {
	for i, src := range list {
		if src.ID == id {
			return i
		}
	}
	return -1
}
