package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

type orderRecord struct {
	order domain.Order
	seq   int
}

type OrderStore struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]orderRecord
	seq    int
	now    func() time.Time
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[primitive.ObjectID]orderRecord),
		now:    time.Now,
	}
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	if o.User != nil {
		u := *o.User
		o.User = &u
	}
	return o
}

func (s *OrderStore) Create(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	now := s.now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt
	s.seq++
	s.orders[o.ID] = orderRecord{order: cloneOrder(*o), seq: s.seq}
	return nil
}

func (s *OrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneOrder(rec.order)
	return &out, nil
}

// newestFirst orders by creation time, breaking ties by insertion order.
func (s *OrderStore) newestFirst(match func(domain.Order) bool) []domain.Order {
	recs := make([]orderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		if match(rec.order) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].order.CreatedAt.Equal(recs[j].order.CreatedAt) {
			return recs[i].order.CreatedAt.After(recs[j].order.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})
	out := make([]domain.Order, len(recs))
	for i, rec := range recs {
		out[i] = cloneOrder(rec.order)
	}
	return out
}

func (s *OrderStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestFirst(func(o domain.Order) bool { return o.OwnedBy(userID) }), nil
}

func (s *OrderStore) Find(_ context.Context, q store.OrderQuery) ([]domain.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.newestFirst(func(o domain.Order) bool {
		return q.Status == "" || o.Status == q.Status
	})
	return paginate(all, q.Page), int64(len(all)), nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.orders[o.ID]
	if !ok {
		return store.ErrNotFound
	}
	rec.order.Status = o.Status
	rec.order.IsPaid = o.IsPaid
	rec.order.PaidAt = o.PaidAt
	rec.order.DeliveredAt = o.DeliveredAt
	rec.order.UpdatedAt = o.UpdatedAt
	s.orders[o.ID] = rec
	return nil
}

func (s *OrderStore) Summaries(_ context.Context) ([]domain.OrderSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.OrderSummary, 0, len(s.orders))
	for _, rec := range s.orders {
		out = append(out, domain.OrderSummary{
			Total:     rec.order.Total,
			Status:    rec.order.Status,
			CreatedAt: rec.order.CreatedAt,
		})
	}
	return out, nil
}

var _ store.OrderStore = (*OrderStore)(nil)
