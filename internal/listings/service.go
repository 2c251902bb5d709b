package listings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

// DefaultOperationTimeout bounds store calls when the caller's context
// carries no deadline.
const DefaultOperationTimeout = 10 * time.Second

// Service exposes the catalog operations over a storage.Store. It holds no
// cross-call state: the store is the sole point of serialization.
type Service struct {
	store     storage.Store
	opTimeout time.Duration
}

func New(store storage.Store, opTimeout time.Duration) *Service {
	if opTimeout <= 0 {
		opTimeout = DefaultOperationTimeout
	}
	return &Service{store: store, opTimeout: opTimeout}
}

// opContext applies the default operation timeout unless the caller already
// bounded the call.
func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// Page is one page of listings with the total match count.
type Page struct {
	Items []catalog.Listing `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int64             `json:"total"`
}

func (s *Service) FindAll(ctx context.Context) ([]catalog.Listing, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		OrderBy: []storage.Order{{Field: "_id", Direction: storage.Asc}},
	})
}

func (s *Service) FindAllPaginated(ctx context.Context, page, size int) (*Page, error) {
	return s.findPaginated(ctx, nil, page, size)
}

// FindWithReviews pages through listings that have at least one review.
func (s *Service) FindWithReviews(ctx context.Context, page, size int) (*Page, error) {
	p := storage.Predicate{{Field: "number_of_reviews", Op: storage.OpGt, Value: 0}}
	return s.findPaginated(ctx, p, page, size)
}

func (s *Service) findPaginated(ctx context.Context, p storage.Predicate, page, size int) (*Page, error) {
	if page < 0 || size <= 0 {
		return nil, fmt.Errorf("%w: page must be >= 0 and size > 0", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	items, err := s.store.Find(ctx, storage.Query{
		Match:   p,
		OrderBy: []storage.Order{{Field: "_id", Direction: storage.Asc}},
		Offset:  page * size,
		Limit:   size,
	})
	if err != nil {
		return nil, err
	}
	total, err := s.store.Count(ctx, p)
	if err != nil {
		return nil, err
	}
	return &Page{Items: items, Page: page, Size: size, Total: total}, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*catalog.Listing, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty listing id", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.FindOne(ctx, id)
}

func (s *Service) ExistsByID(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("%w: empty listing id", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Exists(ctx, id)
}

// Create inserts a new listing, assigning ids where the client supplied
// none. Like state must arrive consistent; it is not mutable through this
// path afterwards.
func (s *Service) Create(ctx context.Context, l *catalog.Listing) (*catalog.Listing, error) {
	if l == nil || strings.TrimSpace(l.Name) == "" {
		return nil, fmt.Errorf("%w: listing name is required", ErrInvalidArgument)
	}
	if l.Likes != int64(len(l.Fans)) {
		return nil, fmt.Errorf("%w: like counter must equal fan set size", ErrInvalidArgument)
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	for i := range l.Reviews {
		if l.Reviews[i].ID == "" {
			l.Reviews[i].ID = uuid.NewString()
		}
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()
	if err := s.store.Insert(ctx, l); err != nil {
		return nil, err
	}
	slog.Info("listing created", "id", l.ID, "name", l.Name)
	return l, nil
}

// Replace overwrites a listing's fields wholesale. The store carries the
// current like counter and fan set into the replacement atomically, so a
// full replace can neither bend the like invariant nor drop a like that
// lands concurrently.
func (s *Service) Replace(ctx context.Context, l *catalog.Listing) (*catalog.Listing, error) {
	if l == nil || l.ID == "" {
		return nil, fmt.Errorf("%w: listing id is required", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.store.Replace(ctx, l); err != nil {
		return nil, err
	}
	current, err := s.store.FindOne(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	slog.Info("listing replaced", "id", l.ID)
	return current, nil
}

func (s *Service) DeleteByID(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty listing id", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("listing deleted", "id", id)
	return nil
}

// SaveAll bulk-inserts listings, replacing any that already exist.
func (s *Service) SaveAll(ctx context.Context, ls []catalog.Listing) error {
	for i := range ls {
		if ls[i].Likes != int64(len(ls[i].Fans)) {
			return fmt.Errorf("%w: like counter must equal fan set size (listing %d)", ErrInvalidArgument, i)
		}
		if ls[i].ID == "" {
			ls[i].ID = uuid.NewString()
		}
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	if err := s.store.InsertMany(ctx, ls); err != nil {
		return err
	}
	slog.Info("listings saved in bulk", "count", len(ls))
	return nil
}

func (s *Service) DeleteByPropertyType(ctx context.Context, propertyType string) (int64, error) {
	if propertyType == "" {
		return 0, fmt.Errorf("%w: empty property type", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	n, err := s.store.DeleteMany(ctx, storage.Predicate{
		{Field: "property_type", Op: storage.OpEq, Value: propertyType},
	})
	if err != nil {
		return 0, err
	}
	slog.Info("listings deleted by property type", "property_type", propertyType, "count", n)
	return n, nil
}

// ---- Simple finders ----

func (s *Service) FindByPropertyType(ctx context.Context, propertyType string) ([]catalog.Listing, error) {
	return s.findByField(ctx, "property_type", propertyType)
}

func (s *Service) FindByRoomType(ctx context.Context, roomType string) ([]catalog.Listing, error) {
	return s.findByField(ctx, "room_type", roomType)
}

func (s *Service) FindByHostName(ctx context.Context, hostName string) ([]catalog.Listing, error) {
	return s.findByField(ctx, "host.host_name", hostName)
}

func (s *Service) FindByMarket(ctx context.Context, market string) ([]catalog.Listing, error) {
	return s.findByField(ctx, "address.market", market)
}

func (s *Service) FindByCountry(ctx context.Context, country string) ([]catalog.Listing, error) {
	return s.findByField(ctx, "address.country", country)
}

// FindByMinimumNights matches the opaque minimum_nights string exactly.
func (s *Service) FindByMinimumNights(ctx context.Context, minimumNights string) ([]catalog.Listing, error) {
	return s.findByField(ctx, "minimum_nights", minimumNights)
}

func (s *Service) findByField(ctx context.Context, field, value string) ([]catalog.Listing, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty %s", ErrInvalidArgument, field)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		Match:   storage.Predicate{{Field: field, Op: storage.OpEq, Value: value}},
		OrderBy: []storage.Order{{Field: "_id", Direction: storage.Asc}},
	})
}

func (s *Service) FindSuperhostListings(ctx context.Context) ([]catalog.Listing, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		Match:   storage.Predicate{{Field: "host.host_is_superhost", Op: storage.OpEq, Value: true}},
		OrderBy: []storage.Order{{Field: "_id", Direction: storage.Asc}},
	})
}

// FindAvailable returns listings with open availability in the next 30 days.
func (s *Service) FindAvailable(ctx context.Context) ([]catalog.Listing, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		Match:   storage.Predicate{{Field: "availability.availability_30", Op: storage.OpGt, Value: 0}},
		OrderBy: []storage.Order{{Field: "_id", Direction: storage.Asc}},
	})
}

func (s *Service) FindByPriceRange(ctx context.Context, minPrice, maxPrice catalog.Money) ([]catalog.Listing, error) {
	if minPrice.Cmp(maxPrice) > 0 {
		return nil, fmt.Errorf("%w: min price exceeds max price", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		Match: storage.Predicate{
			{Field: "price", Op: storage.OpGte, Value: minPrice},
			{Field: "price", Op: storage.OpLte, Value: maxPrice},
		},
		OrderBy: []storage.Order{
			{Field: "price", Direction: storage.Asc},
			{Field: "_id", Direction: storage.Asc},
		},
	})
}

// ---- Text search ----

// SearchByText returns listings whose name, description or neighborhood
// overview contains the text, case-insensitively. Substring containment
// only; no tokenization or ranking.
func (s *Service) SearchByText(ctx context.Context, text string) ([]catalog.Listing, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty search text", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		MatchAny: storage.Predicate{
			{Field: "name", Op: storage.OpContains, Value: text},
			{Field: "description", Op: storage.OpContains, Value: text},
			{Field: "neighborhood_overview", Op: storage.OpContains, Value: text},
		},
		OrderBy: []storage.Order{{Field: "_id", Direction: storage.Asc}},
	})
}

// ---- Partial updates ----

// UpdatePriceByPropertyType sets the price on every listing of the given
// property type and returns the modified count.
func (s *Service) UpdatePriceByPropertyType(ctx context.Context, propertyType string, newPrice catalog.Money) (int64, error) {
	if propertyType == "" {
		return 0, fmt.Errorf("%w: empty property type", ErrInvalidArgument)
	}
	if newPrice.IsNegative() {
		return 0, fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	n, err := s.store.UpdateMany(ctx,
		storage.Predicate{{Field: "property_type", Op: storage.OpEq, Value: propertyType}},
		map[string]interface{}{"price": newPrice},
	)
	if err != nil {
		return 0, err
	}
	slog.Info("price updated by property type", "property_type", propertyType, "count", n)
	return n, nil
}

// UpdateHostResponseTime sets host.host_response_time on every listing of
// the given host and returns the modified count.
func (s *Service) UpdateHostResponseTime(ctx context.Context, hostID, responseTime string) (int64, error) {
	if hostID == "" {
		return 0, fmt.Errorf("%w: empty host id", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	n, err := s.store.UpdateMany(ctx,
		storage.Predicate{{Field: "host.host_id", Op: storage.OpEq, Value: hostID}},
		map[string]interface{}{"host.host_response_time": responseTime},
	)
	if err != nil {
		return 0, err
	}
	slog.Info("host response time updated", "host_id", hostID, "count", n)
	return n, nil
}
