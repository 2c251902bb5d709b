package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staybase/internal/catalog"
	"staybase/internal/storage"
)

func TestMakeFilterBSON(t *testing.T) {
	filter := makeFilterBSON(storage.Predicate{
		{Field: "property_type", Op: storage.OpEq, Value: "Apartment"},
		{Field: "accommodates", Op: storage.OpGte, Value: 2},
	})

	assert.Equal(t, bson.M{
		"property_type": bson.M{"$eq": "Apartment"},
		"accommodates":  bson.M{"$gte": 2},
	}, filter)
}

func TestMakeFilterBSON_MergesSameFieldOperators(t *testing.T) {
	// A range predicate puts two filters on the same field; both bounds must
	// survive in the operator document.
	filter := makeFilterBSON(storage.Predicate{
		{Field: "price", Op: storage.OpGte, Value: 100},
		{Field: "price", Op: storage.OpLte, Value: 200},
	})

	assert.Equal(t, bson.M{
		"price": bson.M{"$gte": 100, "$lte": 200},
	}, filter)
}

func TestMakeFilterValue_ContainsEscapesRegex(t *testing.T) {
	v := makeFilterValue(storage.Filter{Field: "name", Op: storage.OpContains, Value: "a+b (loft)"})

	re, ok := v["$regex"].(primitive.Regex)
	require.True(t, ok)
	// The needle is matched literally and case-insensitively.
	assert.Equal(t, `a\+b \(loft\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestMapOp(t *testing.T) {
	assert.Equal(t, "$eq", mapOp(storage.OpEq))
	assert.Equal(t, "$ne", mapOp(storage.OpNe))
	assert.Equal(t, "$gt", mapOp(storage.OpGt))
	assert.Equal(t, "$gte", mapOp(storage.OpGte))
	assert.Equal(t, "$lt", mapOp(storage.OpLt))
	assert.Equal(t, "$lte", mapOp(storage.OpLte))
	assert.Equal(t, "$in", mapOp(storage.OpIn))
	assert.Equal(t, "$eq", mapOp("unknown"))
}

func TestMakeQueryBSON_MatchAnyBecomesOr(t *testing.T) {
	filter := makeQueryBSON(storage.Query{
		Match: storage.Predicate{{Field: "address.country", Op: storage.OpEq, Value: "Spain"}},
		MatchAny: storage.Predicate{
			{Field: "name", Op: storage.OpContains, Value: "beach"},
			{Field: "description", Op: storage.OpContains, Value: "beach"},
		},
	})

	assert.Equal(t, bson.M{"$eq": "Spain"}, filter["address.country"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Contains(t, or[0].(bson.M), "name")
	assert.Contains(t, or[1].(bson.M), "description")
}

func TestMakeSortBSON(t *testing.T) {
	sort := makeSortBSON([]storage.Order{
		{Field: "price", Direction: storage.Desc},
		{Field: "_id", Direction: storage.Asc},
	})

	assert.Equal(t, bson.D{
		{Key: "price", Value: -1},
		{Key: "_id", Value: 1},
	}, sort)
}

func TestMakeReplaceBSON_CarriesLikeStateOver(t *testing.T) {
	pipeline, err := makeReplaceBSON(&catalog.Listing{
		ID:    "l1",
		Name:  "Renamed",
		Likes: 7,
		Fans:  []string{"u1"},
	})
	require.NoError(t, err)
	require.Len(t, pipeline, 1)

	stage := pipeline[0][0]
	require.Equal(t, "$replaceWith", stage.Key)
	merge := stage.Value.(bson.D)
	require.Equal(t, "$mergeObjects", merge[0].Key)
	parts := merge[0].Value.(bson.A)
	require.Len(t, parts, 2)

	// The replacement document never carries like fields of its own; the
	// second merge operand reads them from the stored document.
	doc := parts[0].(bson.M)
	assert.Equal(t, "l1", doc["_id"])
	assert.Equal(t, "Renamed", doc["name"])
	assert.NotContains(t, doc, "likes")
	assert.NotContains(t, doc, "fans")

	assert.Equal(t, bson.D{
		{Key: "likes", Value: "$likes"},
		{Key: "fans", Value: "$fans"},
	}, parts[1])
}

func TestMakeLikeDeltaBSON_Add(t *testing.T) {
	filter, update := makeLikeDeltaBSON("l1", storage.LikeDelta{UserID: "u1", Add: true})

	// The filter excludes existing fans so the increment and the set insert
	// apply together or not at all.
	assert.Equal(t, bson.M{"_id": "l1", "fans": bson.M{"$ne": "u1"}}, filter)
	assert.Equal(t, bson.M{
		"$inc":      bson.M{"likes": 1},
		"$addToSet": bson.M{"fans": "u1"},
	}, update)
}

func TestMakeLikeDeltaBSON_Remove(t *testing.T) {
	filter, update := makeLikeDeltaBSON("l1", storage.LikeDelta{UserID: "u1", Add: false})

	assert.Equal(t, bson.M{"_id": "l1", "fans": "u1"}, filter)
	assert.Equal(t, bson.M{
		"$inc":  bson.M{"likes": -1},
		"$pull": bson.M{"fans": "u1"},
	}, update)
}

func TestKeySegment(t *testing.T) {
	assert.Equal(t, "property_type", keySegment("property_type"))
	assert.Equal(t, "host_id", keySegment("host.host_id"))
	assert.Equal(t, "c", keySegment("a.b.c"))
}

func TestMakePipeline(t *testing.T) {
	pipeline := makePipeline(storage.AggregationPlan{
		GroupBy: []string{"host.host_id", "host.host_name"},
		Accumulators: []storage.Accumulator{
			{Name: "listingCount", Op: storage.AccCount},
			{Name: "averageRating", Op: storage.AccAvg, Field: "review_scores.review_scores_rating"},
			{Name: "minPrice", Op: storage.AccMin, Field: "price"},
			{Name: "maxPrice", Op: storage.AccMax, Field: "price"},
		},
		OrderBy: []storage.Order{
			{Field: "listingCount", Direction: storage.Desc},
			{Field: "key.host_id", Direction: storage.Asc},
		},
		Limit: 5,
	})

	require.Len(t, pipeline, 3)

	group := pipeline[0][0]
	require.Equal(t, "$group", group.Key)
	groupDoc := group.Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "host_id", Value: "$host.host_id"},
		{Key: "host_name", Value: "$host.host_name"},
	}, groupDoc[0].Value)
	assert.Equal(t, bson.D{{Key: "$sum", Value: 1}}, groupDoc[1].Value)
	assert.Equal(t, bson.D{{Key: "$avg", Value: "$review_scores.review_scores_rating"}}, groupDoc[2].Value)
	assert.Equal(t, bson.D{{Key: "$min", Value: "$price"}}, groupDoc[3].Value)
	assert.Equal(t, bson.D{{Key: "$max", Value: "$price"}}, groupDoc[4].Value)

	sortStage := pipeline[1][0]
	require.Equal(t, "$sort", sortStage.Key)
	assert.Equal(t, bson.D{
		{Key: "listingCount", Value: -1},
		{Key: "_id.host_id", Value: 1},
	}, sortStage.Value)

	limitStage := pipeline[2][0]
	assert.Equal(t, "$limit", limitStage.Key)
	assert.Equal(t, 5, limitStage.Value)
}

func TestMapAggField(t *testing.T) {
	assert.Equal(t, "_id", mapAggField("key"))
	assert.Equal(t, "_id.property_type", mapAggField("key.property_type"))
	assert.Equal(t, "count", mapAggField("count"))
}

func TestDecodeGroupResults(t *testing.T) {
	plan := storage.AggregationPlan{
		GroupBy: []string{"property_type"},
		Accumulators: []storage.Accumulator{
			{Name: "count", Op: storage.AccCount},
			{Name: "averagePrice", Op: storage.AccAvg, Field: "price"},
		},
	}
	raw := []bson.M{
		{
			"_id":          bson.M{"property_type": "Apartment"},
			"count":        int32(2),
			"averagePrice": primitive.NewDecimal128(0, 125),
		},
		{
			"_id":          bson.M{"property_type": nil},
			"count":        int32(1),
			"averagePrice": nil,
		},
	}

	results := decodeGroupResults(plan, raw)
	require.Len(t, results, 2)

	assert.Equal(t, "Apartment", results[0].Key["property_type"])
	assert.Equal(t, int32(2), results[0].Values["count"])

	// The null group keeps a nil key instead of disappearing.
	assert.Nil(t, results[1].Key["property_type"])
	assert.Nil(t, results[1].Values["averagePrice"])
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))

	err := classify(context.DeadlineExceeded)
	assert.ErrorIs(t, err, storage.ErrTransient)

	// Terminal errors pass through untouched.
	assert.ErrorIs(t, classify(storage.ErrNotFound), storage.ErrNotFound)
}
