package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

type OrderStore struct {
	coll *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{coll: db.Collection(ordersCollection)}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (s *OrderStore) Create(ctx context.Context, o *domain.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.UpdatedAt = o.CreatedAt
	if _, err := s.coll.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var o domain.Order
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return nil, translateErr(err)
	}
	return &o, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	cur, err := s.coll.Find(ctx, bson.M{"user": userID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("find user orders: %w", err)
	}
	orders := []domain.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (s *OrderStore) Find(ctx context.Context, q store.OrderQuery) ([]domain.Order, int64, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	cur, err := s.coll.Find(ctx, filter, findOptions(q.Page, newestFirst))
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}
	orders := []domain.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, o *domain.Order) error {
	set := bson.M{
		"status":    o.Status,
		"isPaid":    o.IsPaid,
		"updatedAt": o.UpdatedAt,
	}
	if o.PaidAt != nil {
		set["paidAt"] = o.PaidAt
	}
	if o.DeliveredAt != nil {
		set["deliveredAt"] = o.DeliveredAt
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": o.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *OrderStore) Summaries(ctx context.Context) ([]domain.OrderSummary, error) {
	projection := bson.M{"total": 1, "status": 1, "createdAt": 1}
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("find order summaries: %w", err)
	}
	out := []domain.OrderSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode order summaries: %w", err)
	}
	return out, nil
}

var _ store.OrderStore = (*OrderStore)(nil)
