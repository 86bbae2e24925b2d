package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

const (
	activitiesCollection = "activities"
	factorsCollection    = "food_emission_factors"
	defaultTimeout       = 5 * time.Second
)

// LedgerReader is the read-only view handed out by Snapshot.
type LedgerReader interface {
	ListByUser(ctx context.Context, userID string, category models.Category) ([]models.ActivityRecord, error)
}

// MongoDBRepository stores the activity ledger and the food emission factor
// table. Every call runs under its own timeout.
type MongoDBRepository struct {
	client  *mongo.Client
	dbName  string
	timeout time.Duration
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, timeout time.Duration) (*MongoDBRepository, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientOptions := options.Client().ApplyURI(uri).SetTimeout(timeout)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:  client,
		dbName:  dbName,
		timeout: timeout,
	}, nil
}

// EnsureIndexes creates the indexes the ledger and factor table rely on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	_, err := r.factors().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "food_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return persistenceErr("create food factor index", err)
	}

	_, err = r.activities().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "category", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		return persistenceErr("create activity index", err)
	}
	return nil
}

// Append inserts a new activity record and returns its id. Records are never
// updated afterwards.
func (r *MongoDBRepository) Append(ctx context.Context, record models.ActivityRecord) (string, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	record.ID = primitive.NewObjectID().Hex()
	if _, err := r.activities().InsertOne(ctx, record); err != nil {
		return "", persistenceErr("insert activity", err)
	}
	return record.ID, nil
}

// ListByUser returns the user's records of one category in insertion order.
func (r *MongoDBRepository) ListByUser(ctx context.Context, userID string, category models.Category) ([]models.ActivityRecord, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	filter := bson.D{{Key: "user_id", Value: userID}, {Key: "category", Value: category}}
	cursor, err := r.activities().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, persistenceErr("find activities", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.ActivityRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, persistenceErr("decode activities", err)
	}
	return records, nil
}

// ListUserIDs returns every user that owns at least one record.
func (r *MongoDBRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	values, err := r.activities().Distinct(ctx, "user_id", bson.D{})
	if err != nil {
		return nil, persistenceErr("distinct users", err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// DeleteUserActivities removes every record owned by userID.
func (r *MongoDBRepository) DeleteUserActivities(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	res, err := r.activities().DeleteMany(ctx, bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		return 0, persistenceErr("delete user activities", err)
	}
	return res.DeletedCount, nil
}

// Snapshot hands fn a read-only ledger view bound to a MongoDB session. The
// session is always ended when fn returns.
func (r *MongoDBRepository) Snapshot(ctx context.Context, fn func(reader LedgerReader) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return persistenceErr("start session", err)
	}
	defer session.EndSession(context.Background())

	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		return fn(sessionReader{repo: r, sc: sc})
	})
}

type sessionReader struct {
	repo *MongoDBRepository
	sc   mongo.SessionContext
}

func (s sessionReader) ListByUser(ctx context.Context, userID string, category models.Category) ([]models.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, persistenceErr("snapshot read", err)
	}
	return s.repo.ListByUser(s.sc, userID, category)
}

// LookupFood returns the factor of a food item or models.ErrUnknownFoodItem.
func (r *MongoDBRepository) LookupFood(ctx context.Context, name string) (models.EmissionFactor, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	normalized := models.NormalizeFoodName(name)
	var factor models.EmissionFactor
	err := r.factors().FindOne(ctx, bson.D{{Key: "food_name", Value: normalized}}).Decode(&factor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.EmissionFactor{}, fmt.Errorf("%w: %s", models.ErrUnknownFoodItem, normalized)
	}
	if err != nil {
		return models.EmissionFactor{}, persistenceErr("find food factor", err)
	}
	return factor, nil
}

// ListFoods returns the whole factor table sorted by name.
func (r *MongoDBRepository) ListFoods(ctx context.Context) ([]models.EmissionFactor, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	cursor, err := r.factors().Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "food_name", Value: 1}}))
	if err != nil {
		return nil, persistenceErr("find food factors", err)
	}
	defer cursor.Close(ctx)

	factors := make([]models.EmissionFactor, 0)
	if err := cursor.All(ctx, &factors); err != nil {
		return nil, persistenceErr("decode food factors", err)
	}
	return factors, nil
}

// UpsertFood creates or replaces a factor. Existing records keep the carbon
// they were created with.
func (r *MongoDBRepository) UpsertFood(ctx context.Context, factor models.EmissionFactor) error {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	factor.FoodName = models.NormalizeFoodName(factor.FoodName)
	_, err := r.factors().ReplaceOne(ctx,
		bson.D{{Key: "food_name", Value: factor.FoodName}},
		factor,
		options.Replace().SetUpsert(true))
	if err != nil {
		return persistenceErr("upsert food factor", err)
	}
	return nil
}

// SeedFoods inserts factors when the table is empty and reports how many were added.
func (r *MongoDBRepository) SeedFoods(ctx context.Context, factors []models.EmissionFactor) (int, error) {
	ctx, cancel := r.scoped(ctx)
	defer cancel()

	count, err := r.factors().CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, persistenceErr("count food factors", err)
	}
	if count > 0 || len(factors) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(factors))
	for _, f := range factors {
		f.FoodName = models.NormalizeFoodName(f.FoodName)
		docs = append(docs, f)
	}
	if _, err := r.factors().InsertMany(ctx, docs); err != nil {
		return 0, persistenceErr("seed food factors", err)
	}
	return len(docs), nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) activities() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(activitiesCollection)
}

func (r *MongoDBRepository) factors() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(factorsCollection)
}

func (r *MongoDBRepository) scoped(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrPersistence, op, err)
}
