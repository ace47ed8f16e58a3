// Package store defines the persistence ports for products, orders and users.
// Implementations live in the mongostore and memory subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("store: document not found")
	ErrInsufficientStock = errors.New("store: insufficient stock")
)

// DuplicateKeyError is returned when a write violates a unique index.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("store: duplicate value for %s", e.Field)
}

type ProductSort string

const (
	SortDefault   ProductSort = "default"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortRating    ProductSort = "rating"
	SortNewest    ProductSort = "newest"
	SortPopular   ProductSort = "popular"
)

// ParseProductSort falls back to SortDefault for unknown values.
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortPriceAsc, SortPriceDesc, SortRating, SortNewest, SortPopular:
		return ProductSort(s)
	}
	return SortDefault
}

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Skip() int64 {
	if p.Page < 1 {
		return 0
	}
	return int64((p.Page - 1) * p.Limit)
}

type ProductQuery struct {
	Category  domain.Category
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   bool
	Featured  bool
	Sort      ProductSort
	Page
}

type OrderQuery struct {
	Status domain.OrderStatus
	Page
}

type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Product, error)
	Find(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	// ReserveStock atomically decrements stock by qty only when stock >= qty and returns
	// the updated product. It fails with ErrNotFound or ErrInsufficientStock.
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*domain.Product, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	// FindByUser returns the user's orders, newest first.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
	Find(ctx context.Context, q OrderQuery) ([]domain.Order, int64, error)
	// UpdateStatus persists the mutable status, payment and delivery fields.
	UpdateStatus(ctx context.Context, o *domain.Order) error
	Summaries(ctx context.Context) ([]domain.OrderSummary, error)
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, page Page) ([]domain.User, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}
