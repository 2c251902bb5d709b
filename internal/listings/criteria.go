package listings

import (
	"context"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

// SearchCriteria is an optional, partial set of filters. A nil field
// contributes no constraint; present fields are ANDed together.
type SearchCriteria struct {
	PropertyType    *string
	MinAccommodates *int
	MaxPrice        *catalog.Money
	Country         *string
}

// Predicate composes the present filters into one store-agnostic predicate.
func (c SearchCriteria) Predicate() storage.Predicate {
	var p storage.Predicate
	if c.PropertyType != nil {
		p = append(p, storage.Filter{Field: "property_type", Op: storage.OpEq, Value: *c.PropertyType})
	}
	if c.MinAccommodates != nil {
		p = append(p, storage.Filter{Field: "accommodates", Op: storage.OpGte, Value: *c.MinAccommodates})
	}
	if c.MaxPrice != nil {
		p = append(p, storage.Filter{Field: "price", Op: storage.OpLte, Value: *c.MaxPrice})
	}
	if c.Country != nil {
		p = append(p, storage.Filter{Field: "address.country", Op: storage.OpEq, Value: *c.Country})
	}
	return p
}

// FindByCustomCriteria returns the listings satisfying all present filters,
// ordered by price descending with ascending id as the tie-break. No filter
// present matches everything; an empty result is not an error.
func (s *Service) FindByCustomCriteria(ctx context.Context, c SearchCriteria) ([]catalog.Listing, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()
	return s.store.Find(ctx, storage.Query{
		Match: c.Predicate(),
		OrderBy: []storage.Order{
			{Field: "price", Direction: storage.Desc},
			{Field: "_id", Direction: storage.Asc},
		},
	})
}
