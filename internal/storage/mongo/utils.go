package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"staybase/internal/catalog"
	"staybase/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func makeFilterBSON(p storage.Predicate) bson.M {
	filter := bson.M{}
	for _, f := range p {
		// Filters on the same field merge into one operator document, so a
		// range predicate keeps both bounds.
		ops, ok := filter[f.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[f.Field] = ops
		}
		for op, v := range makeFilterValue(f) {
			ops[op] = v
		}
	}
	return filter
}

func makeFilterValue(f storage.Filter) bson.M {
	if f.Op == storage.OpContains {
		s, _ := f.Value.(string)
		return bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}
	}
	return bson.M{mapOp(f.Op): f.Value}
}

func mapOp(op string) string {
	switch op {
	case storage.OpEq:
		return "$eq"
	case storage.OpNe:
		return "$ne"
	case storage.OpGt:
		return "$gt"
	case storage.OpGte:
		return "$gte"
	case storage.OpLt:
		return "$lt"
	case storage.OpLte:
		return "$lte"
	case storage.OpIn:
		return "$in"
	default:
		return "$eq" // Default to equality
	}
}

func makeQueryBSON(q storage.Query) bson.M {
	filter := makeFilterBSON(q.Match)
	if len(q.MatchAny) > 0 {
		or := make(bson.A, 0, len(q.MatchAny))
		for _, f := range q.MatchAny {
			or = append(or, bson.M{f.Field: makeFilterValue(f)})
		}
		filter["$or"] = or
	}
	return filter
}

func makeSortBSON(orderBy []storage.Order) bson.D {
	sort := bson.D{}
	for _, o := range orderBy {
		dir := 1
		if o.Direction == storage.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: o.Field, Value: dir})
	}
	return sort
}

// makeReplaceBSON builds an aggregation-pipeline update that swaps the whole
// document for the replacement while carrying the stored like counter and
// fan set over. The carry-over happens inside the single update, so a
// replace racing a like cannot clobber it.
func makeReplaceBSON(l *catalog.Listing) (mongo.Pipeline, error) {
	data, err := bson.Marshal(l)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "likes")
	delete(doc, "fans")

	return mongo.Pipeline{bson.D{{Key: "$replaceWith", Value: bson.D{
		{Key: "$mergeObjects", Value: bson.A{
			doc,
			bson.D{
				{Key: "likes", Value: "$likes"},
				{Key: "fans", Value: "$fans"},
			},
		}},
	}}}}, nil
}

func makeLikeDeltaBSON(id string, delta storage.LikeDelta) (bson.M, bson.M) {
	if delta.Add {
		// Matches only when the user is not yet a fan; $inc and $addToSet
		// land in the same single-document update.
		filter := bson.M{"_id": id, "fans": bson.M{"$ne": delta.UserID}}
		update := bson.M{
			"$inc":      bson.M{"likes": 1},
			"$addToSet": bson.M{"fans": delta.UserID},
		}
		return filter, update
	}
	filter := bson.M{"_id": id, "fans": delta.UserID}
	update := bson.M{
		"$inc":  bson.M{"likes": -1},
		"$pull": bson.M{"fans": delta.UserID},
	}
	return filter, update
}

// keySegment names a group key part after the last path segment, so
// "host.host_id" groups under "host_id".
func keySegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx != -1 {
		return path[idx+1:]
	}
	return path
}

func makePipeline(plan storage.AggregationPlan) mongo.Pipeline {
	groupID := bson.D{}
	for _, path := range plan.GroupBy {
		groupID = append(groupID, bson.E{Key: keySegment(path), Value: "$" + path})
	}

	group := bson.D{{Key: "_id", Value: groupID}}
	for _, acc := range plan.Accumulators {
		switch acc.Op {
		case storage.AccCount:
			group = append(group, bson.E{Key: acc.Name, Value: bson.D{{Key: "$sum", Value: 1}}})
		case storage.AccAvg:
			group = append(group, bson.E{Key: acc.Name, Value: bson.D{{Key: "$avg", Value: "$" + acc.Field}}})
		case storage.AccMin:
			group = append(group, bson.E{Key: acc.Name, Value: bson.D{{Key: "$min", Value: "$" + acc.Field}}})
		case storage.AccMax:
			group = append(group, bson.E{Key: acc.Name, Value: bson.D{{Key: "$max", Value: "$" + acc.Field}}})
		}
	}

	pipeline := mongo.Pipeline{bson.D{{Key: "$group", Value: group}}}

	if len(plan.OrderBy) > 0 {
		sort := bson.D{}
		for _, o := range plan.OrderBy {
			dir := 1
			if o.Direction == storage.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: mapAggField(o.Field), Value: dir})
		}
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}

	if plan.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: plan.Limit}})
	}

	return pipeline
}

// mapAggField maps plan sort fields to pipeline stage fields: "key.<seg>"
// addresses a group key part inside _id, anything else is an accumulator.
func mapAggField(field string) string {
	if field == "key" {
		return "_id"
	}
	if strings.HasPrefix(field, "key.") {
		return "_id." + strings.TrimPrefix(field, "key.")
	}
	return field
}

func decodeGroupResults(plan storage.AggregationPlan, raw []bson.M) []storage.GroupResult {
	results := make([]storage.GroupResult, 0, len(raw))
	for _, doc := range raw {
		gr := storage.GroupResult{
			Key:    map[string]interface{}{},
			Values: map[string]interface{}{},
		}
		if id, ok := doc["_id"].(bson.M); ok {
			for _, path := range plan.GroupBy {
				seg := keySegment(path)
				gr.Key[seg] = id[seg]
			}
		}
		for _, acc := range plan.Accumulators {
			gr.Values[acc.Name] = doc[acc.Name]
		}
		results = append(results, gr)
	}
	return results
}

// classify folds driver timeouts and connection failures into ErrTransient
// so callers can tell retryable failures from terminal ones.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%w: %v", storage.ErrTransient, err)
	}
	return err
}
