// Package memory provides an in-process storage.Store with the same
// observable semantics as the mongo backend. It backs the "memory" storage
// mode and the catalog test suite; a single mutex stands in for MongoDB's
// per-document atomicity.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

type MemoryStore struct {
	mu       sync.Mutex
	listings map[string]*catalog.Listing
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{listings: make(map[string]*catalog.Listing)}
}

func clone(l *catalog.Listing) *catalog.Listing {
	cp := *l
	cp.Fans = append([]string(nil), l.Fans...)
	cp.Amenities = append([]string(nil), l.Amenities...)
	cp.Reviews = append([]catalog.Review(nil), l.Reviews...)
	return &cp
}

func (s *MemoryStore) FindOne(ctx context.Context, id string) (*catalog.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(l), nil
}

func (s *MemoryStore) Find(ctx context.Context, q storage.Query) ([]catalog.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []catalog.Listing
	for _, l := range s.listings {
		if matchesQuery(l, q) {
			matched = append(matched, *clone(l))
		}
	}

	sortListings(matched, q.OrderBy)

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.listings[id]
	return ok, nil
}

func (s *MemoryStore) Count(ctx context.Context, p storage.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, l := range s.listings {
		if matchesPredicate(l, p) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Insert(ctx context.Context, l *catalog.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[l.ID]; ok {
		return storage.ErrExists
	}
	s.listings[l.ID] = clone(l)
	return nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, ls []catalog.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range ls {
		s.listings[ls[i].ID] = clone(&ls[i])
	}
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, l *catalog.Listing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.listings[l.ID]
	if !ok {
		return storage.ErrNotFound
	}
	// Like state survives a wholesale replace; it moves only through
	// ApplyLikeDelta.
	cp := clone(l)
	cp.Likes = cur.Likes
	cp.Fans = append([]string(nil), cur.Fans...)
	s.listings[l.ID] = cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.listings, id)
	return nil
}

func (s *MemoryStore) DeleteMany(ctx context.Context, p storage.Predicate) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, l := range s.listings {
		if matchesPredicate(l, p) {
			delete(s.listings, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) UpdateMany(ctx context.Context, p storage.Predicate, set map[string]interface{}) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for field := range set {
		if field == "likes" || field == "fans" {
			return 0, errors.New("like state cannot be updated through UpdateMany")
		}
	}

	var n int64
	for _, l := range s.listings {
		if !matchesPredicate(l, p) {
			continue
		}
		for field, value := range set {
			if err := setField(l, field, value); err != nil {
				return n, err
			}
		}
		n++
	}
	return n, nil
}

func (s *MemoryStore) ApplyLikeDelta(ctx context.Context, id string, delta storage.LikeDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return storage.ErrNotFound
	}

	// Precondition and mutation under one lock: same observable behavior as
	// the mongo backend's filtered atomic update.
	if delta.Add {
		if l.HasFan(delta.UserID) {
			return storage.ErrPreconditionFailed
		}
		l.Fans = append(l.Fans, delta.UserID)
		l.Likes++
		return nil
	}

	if !l.HasFan(delta.UserID) {
		return storage.ErrPreconditionFailed
	}
	for i, f := range l.Fans {
		if f == delta.UserID {
			l.Fans = append(l.Fans[:i], l.Fans[i+1:]...)
			break
		}
	}
	l.Likes--
	return nil
}

func (s *MemoryStore) HasFan(ctx context.Context, id string, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return false, storage.ErrNotFound
	}
	return l.HasFan(userID), nil
}

func (s *MemoryStore) Aggregate(ctx context.Context, plan storage.AggregationPlan) ([]storage.GroupResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return aggregate(s.listings, plan)
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func matchesQuery(l *catalog.Listing, q storage.Query) bool {
	if !matchesPredicate(l, q.Match) {
		return false
	}
	if len(q.MatchAny) == 0 {
		return true
	}
	for _, f := range q.MatchAny {
		if matchesFilter(l, f) {
			return true
		}
	}
	return false
}

func matchesPredicate(l *catalog.Listing, p storage.Predicate) bool {
	for _, f := range p {
		if !matchesFilter(l, f) {
			return false
		}
	}
	return true
}

func matchesFilter(l *catalog.Listing, f storage.Filter) bool {
	value := fieldValue(l, f.Field)

	switch f.Op {
	case storage.OpContains:
		s, _ := value.(string)
		sub, _ := f.Value.(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
	case storage.OpIn:
		items, ok := f.Value.([]interface{})
		if !ok {
			return false
		}
		for _, item := range items {
			if cmp, ok := compareValues(value, item); ok && cmp == 0 {
				return true
			}
		}
		return false
	}

	// Array fields match by element, mirroring mongo equality on arrays.
	if items, ok := value.([]string); ok && f.Op == storage.OpEq {
		want, _ := f.Value.(string)
		for _, item := range items {
			if item == want {
				return true
			}
		}
		return false
	}

	cmp, comparable := compareValues(value, f.Value)
	if !comparable {
		// Mongo's $ne matches documents whose field has a different type
		// or is absent.
		return f.Op == storage.OpNe
	}
	switch f.Op {
	case storage.OpEq:
		return cmp == 0
	case storage.OpNe:
		return cmp != 0
	case storage.OpGt:
		return cmp > 0
	case storage.OpGte:
		return cmp >= 0
	case storage.OpLt:
		return cmp < 0
	case storage.OpLte:
		return cmp <= 0
	}
	return false
}

func sortListings(ls []catalog.Listing, orderBy []storage.Order) {
	if len(orderBy) == 0 {
		sort.SliceStable(ls, func(i, j int) bool { return ls[i].ID < ls[j].ID })
		return
	}
	sort.SliceStable(ls, func(i, j int) bool {
		for _, o := range orderBy {
			cmp, ok := compareValues(fieldValue(&ls[i], o.Field), fieldValue(&ls[j], o.Field))
			if !ok || cmp == 0 {
				continue
			}
			if o.Direction == storage.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}
