package mongo

import (
	"context"
	"errors"

	"staybase/internal/catalog"
	"staybase/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements storage.Store on top of a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	db         *mongo.Database
	collection string
}

// NewMongoStore initializes a new MongoDB storage backend
func NewMongoStore(ctx context.Context, uri string, dbName string, collection string) (*MongoStore, error) {
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, classify(err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, classify(err)
	}

	store := &MongoStore{
		client:     client,
		db:         client.Database(dbName),
		collection: collection,
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, classify(err)
	}
	return store, nil
}

func (m *MongoStore) coll() *mongo.Collection {
	return m.db.Collection(m.collection)
}

func (m *MongoStore) FindOne(ctx context.Context, id string) (*catalog.Listing, error) {
	var l catalog.Listing
	err := m.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&l)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, classify(err)
	}
	return &l, nil
}

func (m *MongoStore) Find(ctx context.Context, q storage.Query) ([]catalog.Listing, error) {
	filter := makeQueryBSON(q)

	findOptions := options.Find()
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		findOptions.SetSkip(int64(q.Offset))
	}
	if len(q.OrderBy) > 0 {
		findOptions.SetSort(makeSortBSON(q.OrderBy))
	}

	cursor, err := m.coll().Find(ctx, filter, findOptions)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var listings []catalog.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, classify(err)
	}
	return listings, nil
}

func (m *MongoStore) Exists(ctx context.Context, id string) (bool, error) {
	count, err := m.coll().CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, classify(err)
	}
	return count > 0, nil
}

func (m *MongoStore) Count(ctx context.Context, p storage.Predicate) (int64, error) {
	count, err := m.coll().CountDocuments(ctx, makeFilterBSON(p))
	if err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func (m *MongoStore) Insert(ctx context.Context, l *catalog.Listing) error {
	_, err := m.coll().InsertOne(ctx, l)
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrExists
	}
	return classify(err)
}

// InsertMany upserts by id so re-seeding and bulk imports are idempotent.
func (m *MongoStore) InsertMany(ctx context.Context, ls []catalog.Listing) error {
	if len(ls) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(ls))
	for i := range ls {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": ls[i].ID}).
			SetReplacement(&ls[i]).
			SetUpsert(true))
	}
	_, err := m.coll().BulkWrite(ctx, models)
	return classify(err)
}

// Replace swaps every field of an existing listing except the like state,
// which the pipeline update carries over from the stored document in the
// same atomic operation.
func (m *MongoStore) Replace(ctx context.Context, l *catalog.Listing) error {
	pipeline, err := makeReplaceBSON(l)
	if err != nil {
		return err
	}
	result, err := m.coll().UpdateOne(ctx, bson.M{"_id": l.ID}, pipeline)
	if err != nil {
		return classify(err)
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, id string) error {
	result, err := m.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *MongoStore) DeleteMany(ctx context.Context, p storage.Predicate) (int64, error) {
	result, err := m.coll().DeleteMany(ctx, makeFilterBSON(p))
	if err != nil {
		return 0, classify(err)
	}
	return result.DeletedCount, nil
}

func (m *MongoStore) UpdateMany(ctx context.Context, p storage.Predicate, set map[string]interface{}) (int64, error) {
	// The like fields are only reachable through ApplyLikeDelta.
	for field := range set {
		if field == "likes" || field == "fans" {
			return 0, errors.New("like state cannot be updated through UpdateMany")
		}
	}

	update := bson.M{"$set": bson.M(set)}
	result, err := m.coll().UpdateMany(ctx, makeFilterBSON(p), update)
	if err != nil {
		return 0, classify(err)
	}
	return result.ModifiedCount, nil
}

// ApplyLikeDelta issues the counter increment and the fan-set mutation as a
// single UpdateOne whose filter carries the membership precondition. MongoDB
// applies the update atomically per document, so the counter and the set can
// never be observed out of step.
func (m *MongoStore) ApplyLikeDelta(ctx context.Context, id string, delta storage.LikeDelta) error {
	filter, update := makeLikeDeltaBSON(id, delta)

	result, err := m.coll().UpdateOne(ctx, filter, update)
	if err != nil {
		return classify(err)
	}
	if result.MatchedCount == 0 {
		count, countErr := m.coll().CountDocuments(ctx, bson.M{"_id": id})
		if countErr != nil {
			return classify(countErr)
		}
		if count == 0 {
			return storage.ErrNotFound
		}
		return storage.ErrPreconditionFailed
	}
	return nil
}

func (m *MongoStore) HasFan(ctx context.Context, id string, userID string) (bool, error) {
	count, err := m.coll().CountDocuments(ctx, bson.M{"_id": id, "fans": userID})
	if err != nil {
		return false, classify(err)
	}
	if count > 0 {
		return true, nil
	}

	exists, err := m.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, storage.ErrNotFound
	}
	return false, nil
}

func (m *MongoStore) Aggregate(ctx context.Context, plan storage.AggregationPlan) ([]storage.GroupResult, error) {
	pipeline := makePipeline(plan)

	cursor, err := m.coll().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, classify(err)
	}
	return decodeGroupResults(plan, raw), nil
}

// EnsureIndexes creates the indexes the query paths rely on.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	fields := []string{"property_type", "address.country", "host.host_id", "fans"}
	for _, field := range fields {
		_, err := m.coll().Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(false),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
