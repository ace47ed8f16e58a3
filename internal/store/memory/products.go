// Package memory provides in-process implementations of the store ports.
// They back unit tests and the `memory` store driver for local runs.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

type ProductStore struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]domain.Product
	now      func() time.Time
}

func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[primitive.ObjectID]domain.Product),
		now:      time.Now,
	}
}

func cloneProduct(p domain.Product) domain.Product {
	p.Images = slices.Clone(p.Images)
	p.Tags = slices.Clone(p.Tags)
	p.Specs = maps.Clone(p.Specs)
	return p
}

func (s *ProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := cloneProduct(p)
	return &out, nil
}

func (s *ProductStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (s *ProductStore) Find(_ context.Context, q store.ProductQuery) ([]domain.Product, int64, error) {
	s.mu.RLock()
	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if matchesProduct(p, q) {
			matched = append(matched, cloneProduct(p))
		}
	}
	s.mu.RUnlock()

	sortProducts(matched, q.Sort)
	total := int64(len(matched))
	return paginate(matched, q.Page), total, nil
}

func matchesProduct(p domain.Product, q store.ProductQuery) bool {
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.MinRating != nil && p.Rating < *q.MinRating {
		return false
	}
	if q.InStock && p.Stock <= 0 {
		return false
	}
	if q.Featured && !p.IsFeatured {
		return false
	}
	if q.Search != "" && !matchesSearch(p, q.Search) {
		return false
	}
	return true
}

// matchesSearch approximates a text index: any search term found in name, description or tags.
func matchesSearch(p domain.Product, search string) bool {
	haystack := strings.ToLower(p.Name + " " + p.Description + " " + strings.Join(p.Tags, " "))
	for _, term := range strings.Fields(strings.ToLower(search)) {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

func sortProducts(ps []domain.Product, by store.ProductSort) {
	var less func(a, b domain.Product) bool
	switch by {
	case store.SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case store.SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.Price > b.Price }
	case store.SortRating:
		less = func(a, b domain.Product) bool { return a.Rating > b.Rating }
	case store.SortNewest:
		less = func(a, b domain.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	case store.SortPopular:
		less = func(a, b domain.Product) bool { return a.ReviewCount > b.ReviewCount }
	default:
		less = func(a, b domain.Product) bool {
			if a.IsFeatured != b.IsFeatured {
				return a.IsFeatured
			}
			return a.CreatedAt.After(b.CreatedAt)
		}
	}
	sort.SliceStable(ps, func(i, j int) bool { return less(ps[i], ps[j]) })
}

func paginate[T any](items []T, page store.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	skip := int(page.Skip())
	if skip >= len(items) {
		return []T{}
	}
	end := min(skip+page.Limit, len(items))
	return items[skip:end]
}

func (s *ProductStore) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.products[p.ID] = cloneProduct(*p)
	return nil
}

func (s *ProductStore) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = s.now()
	s.products[p.ID] = cloneProduct(*p)
	return nil
}

func (s *ProductStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *ProductStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *ProductStore) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if p.Stock < qty {
		return nil, store.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = s.now()
	s.products[id] = p
	out := cloneProduct(p)
	return &out, nil
}

var _ store.ProductStore = (*ProductStore)(nil)
