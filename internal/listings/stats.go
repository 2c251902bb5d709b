package listings

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

// PropertyTypeStats is one group of the property-type report. Listings
// without a property type form their own group with an empty PropertyType.
type PropertyTypeStats struct {
	PropertyType string        `json:"propertyType"`
	Count        int64         `json:"count"`
	AveragePrice catalog.Money `json:"averagePrice"`
	MinPrice     catalog.Money `json:"minPrice"`
	MaxPrice     catalog.Money `json:"maxPrice"`
}

// HostStats is one group of the top-hosts report. AverageRating is nil when
// none of the host's listings carry a rating; missing ratings are skipped,
// never counted as zero.
type HostStats struct {
	HostID        string   `json:"hostId"`
	HostName      string   `json:"hostName"`
	ListingCount  int64    `json:"listingCount"`
	AverageRating *float64 `json:"averageRating,omitempty"`
}

// GetPropertyTypeStatistics groups all listings by property type with
// count and decimal price stats, ordered by count descending and property
// type ascending on ties.
func (s *Service) GetPropertyTypeStatistics(ctx context.Context) ([]PropertyTypeStats, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	groups, err := s.store.Aggregate(ctx, storage.AggregationPlan{
		GroupBy: []string{"property_type"},
		Accumulators: []storage.Accumulator{
			{Name: "count", Op: storage.AccCount},
			{Name: "averagePrice", Op: storage.AccAvg, Field: "price"},
			{Name: "minPrice", Op: storage.AccMin, Field: "price"},
			{Name: "maxPrice", Op: storage.AccMax, Field: "price"},
		},
		OrderBy: []storage.Order{
			{Field: "count", Direction: storage.Desc},
			{Field: "key.property_type", Direction: storage.Asc},
		},
	})
	if err != nil {
		return nil, err
	}

	stats := make([]PropertyTypeStats, 0, len(groups))
	for _, g := range groups {
		st := PropertyTypeStats{Count: toInt64(g.Values["count"])}
		if pt, ok := g.Key["property_type"].(string); ok {
			st.PropertyType = pt
		}
		if st.AveragePrice, err = toMoney(g.Values["averagePrice"]); err != nil {
			return nil, fmt.Errorf("property type stats: %w", err)
		}
		if st.MinPrice, err = toMoney(g.Values["minPrice"]); err != nil {
			return nil, fmt.Errorf("property type stats: %w", err)
		}
		if st.MaxPrice, err = toMoney(g.Values["maxPrice"]); err != nil {
			return nil, fmt.Errorf("property type stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// GetTopHostsByListings returns up to limit hosts ordered by listing count
// descending, host id ascending on ties.
func (s *Service) GetTopHostsByListings(ctx context.Context, limit int) ([]HostStats, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidArgument)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	groups, err := s.store.Aggregate(ctx, storage.AggregationPlan{
		GroupBy: []string{"host.host_id", "host.host_name"},
		Accumulators: []storage.Accumulator{
			{Name: "listingCount", Op: storage.AccCount},
			{Name: "averageRating", Op: storage.AccAvg, Field: "review_scores.review_scores_rating"},
		},
		OrderBy: []storage.Order{
			{Field: "listingCount", Direction: storage.Desc},
			{Field: "key.host_id", Direction: storage.Asc},
		},
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	stats := make([]HostStats, 0, len(groups))
	for _, g := range groups {
		st := HostStats{ListingCount: toInt64(g.Values["listingCount"])}
		if id, ok := g.Key["host_id"].(string); ok {
			st.HostID = id
		}
		if name, ok := g.Key["host_name"].(string); ok {
			st.HostName = name
		}
		if rating, ok := toFloat64(g.Values["averageRating"]); ok {
			st.AverageRating = &rating
		}
		stats = append(stats, st)
	}
	return stats, nil
}

// toMoney normalizes an aggregated monetary value. The mongo backend yields
// Decimal128, the memory backend yields Money; both stay decimal.
func toMoney(v interface{}) (catalog.Money, error) {
	switch m := v.(type) {
	case nil:
		return catalog.Money{}, nil
	case catalog.Money:
		return m, nil
	case primitive.Decimal128:
		return catalog.NewMoney(m.String())
	case int32:
		return catalog.MoneyFromInt(int64(m)), nil
	case int64:
		return catalog.MoneyFromInt(m), nil
	default:
		return catalog.Money{}, fmt.Errorf("unexpected monetary aggregate type %T", v)
	}
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
