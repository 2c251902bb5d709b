package memory

import (
	"fmt"
	"sort"
	"strings"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

// fieldValue resolves a document field path against a listing. Unknown or
// absent fields resolve to nil, matching mongo's missing-field semantics.
func fieldValue(l *catalog.Listing, field string) interface{} {
	switch field {
	case "_id":
		return l.ID
	case "name":
		return l.Name
	case "summary":
		return l.Summary
	case "description":
		return l.Description
	case "neighborhood_overview":
		return l.NeighborhoodOverview
	case "property_type":
		if l.PropertyType == "" {
			return nil
		}
		return l.PropertyType
	case "room_type":
		return l.RoomType
	case "bed_type":
		return l.BedType
	case "minimum_nights":
		return l.MinimumNights
	case "maximum_nights":
		return l.MaximumNights
	case "accommodates":
		return l.Accommodates
	case "bedrooms":
		return l.Bedrooms
	case "beds":
		return l.Beds
	case "number_of_reviews":
		return l.NumberOfReviews
	case "price":
		return l.Price
	case "cleaning_fee":
		return l.CleaningFee
	case "security_deposit":
		return l.SecurityDeposit
	case "likes":
		return l.Likes
	case "fans":
		return l.Fans
	case "address.country":
		return l.Address.Country
	case "address.market":
		return l.Address.Market
	case "host.host_id":
		if l.Host.HostID == "" {
			return nil
		}
		return l.Host.HostID
	case "host.host_name":
		return l.Host.HostName
	case "host.host_is_superhost":
		return l.Host.HostIsSuperhost
	case "host.host_response_time":
		return l.Host.HostResponseTime
	case "availability.availability_30":
		return l.Availability.Availability30
	case "review_scores.review_scores_rating":
		if l.ReviewScores.ReviewScoresRating == nil {
			return nil
		}
		return *l.ReviewScores.ReviewScoresRating
	}
	return nil
}

// setField applies a partial update. Only the paths the service's update
// operations touch are supported.
func setField(l *catalog.Listing, field string, value interface{}) error {
	switch field {
	case "price":
		m, ok := value.(catalog.Money)
		if !ok {
			return fmt.Errorf("price update requires a Money value, got %T", value)
		}
		l.Price = m
		return nil
	case "host.host_response_time":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("host response time update requires a string, got %T", value)
		}
		l.Host.HostResponseTime = s
		return nil
	}
	return fmt.Errorf("unsupported update field %q", field)
}

// compareValues orders two field values. Nil sorts before everything, as
// mongo orders null first ascending.
func compareValues(a, b interface{}) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}

	if am, ok := a.(catalog.Money); ok {
		switch bv := b.(type) {
		case catalog.Money:
			return am.Cmp(bv), true
		case string:
			bm, err := catalog.NewMoney(bv)
			if err != nil {
				return 0, false
			}
			return am.Cmp(bm), true
		}
		return 0, false
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

type group struct {
	key    map[string]interface{}
	sums   map[string]catalog.Money
	floats map[string]float64
	counts map[string]int64
	mins   map[string]interface{}
	maxs   map[string]interface{}
	n      int64
}

// aggregate executes a plan over the listing set in one pass, with the same
// accumulator semantics as the mongo pipeline: count counts documents,
// avg/min/max skip absent values, monetary fields stay decimal.
func aggregate(listings map[string]*catalog.Listing, plan storage.AggregationPlan) ([]storage.GroupResult, error) {
	groups := map[string]*group{}

	for _, l := range listings {
		key := map[string]interface{}{}
		keyID := ""
		for _, path := range plan.GroupBy {
			seg := keySegment(path)
			v := fieldValue(l, path)
			key[seg] = v
			keyID += fmt.Sprintf("%v\x00", v)
		}

		g, ok := groups[keyID]
		if !ok {
			g = &group{
				key:    key,
				sums:   map[string]catalog.Money{},
				floats: map[string]float64{},
				counts: map[string]int64{},
				mins:   map[string]interface{}{},
				maxs:   map[string]interface{}{},
			}
			groups[keyID] = g
		}
		g.n++

		for _, acc := range plan.Accumulators {
			if acc.Op == storage.AccCount {
				continue
			}
			v := fieldValue(l, acc.Field)
			if v == nil {
				continue
			}
			switch acc.Op {
			case storage.AccAvg:
				if m, ok := v.(catalog.Money); ok {
					g.sums[acc.Name] = g.sums[acc.Name].Add(m)
				} else if f, ok := toFloat(v); ok {
					g.floats[acc.Name] += f
				}
				g.counts[acc.Name]++
			case storage.AccMin:
				cur, seen := g.mins[acc.Name]
				if !seen {
					g.mins[acc.Name] = v
				} else if cmp, ok := compareValues(v, cur); ok && cmp < 0 {
					g.mins[acc.Name] = v
				}
			case storage.AccMax:
				cur, seen := g.maxs[acc.Name]
				if !seen {
					g.maxs[acc.Name] = v
				} else if cmp, ok := compareValues(v, cur); ok && cmp > 0 {
					g.maxs[acc.Name] = v
				}
			}
		}
	}

	results := make([]storage.GroupResult, 0, len(groups))
	for _, g := range groups {
		gr := storage.GroupResult{Key: g.key, Values: map[string]interface{}{}}
		for _, acc := range plan.Accumulators {
			switch acc.Op {
			case storage.AccCount:
				gr.Values[acc.Name] = g.n
			case storage.AccAvg:
				n := g.counts[acc.Name]
				if n == 0 {
					gr.Values[acc.Name] = nil
				} else if sum, ok := g.sums[acc.Name]; ok {
					gr.Values[acc.Name] = sum.Div(n)
				} else {
					gr.Values[acc.Name] = g.floats[acc.Name] / float64(n)
				}
			case storage.AccMin:
				gr.Values[acc.Name] = g.mins[acc.Name]
			case storage.AccMax:
				gr.Values[acc.Name] = g.maxs[acc.Name]
			}
		}
		results = append(results, gr)
	}

	sortGroups(results, plan.OrderBy)

	if plan.Limit > 0 && len(results) > plan.Limit {
		results = results[:plan.Limit]
	}
	return results, nil
}

func sortGroups(results []storage.GroupResult, orderBy []storage.Order) {
	sort.SliceStable(results, func(i, j int) bool {
		for _, o := range orderBy {
			cmp, ok := compareValues(groupField(results[i], o.Field), groupField(results[j], o.Field))
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

func groupField(gr storage.GroupResult, field string) interface{} {
	if strings.HasPrefix(field, "key.") {
		return gr.Key[strings.TrimPrefix(field, "key.")]
	}
	return gr.Values[field]
}

func keySegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx != -1 {
		return path[idx+1:]
	}
	return path
}

var _ storage.Store = (*MemoryStore)(nil)
