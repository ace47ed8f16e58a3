package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

func seedCatalog(t *testing.T, s *ProductStore) map[string]domain.Product {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []domain.Product{
		{Name: "Studio Headphones", Category: domain.CategoryHeadphones, Price: 199, Rating: 4.5, ReviewCount: 40, Stock: 5, IsFeatured: true, Description: "closed back", Tags: []string{"audio"}},
		{Name: "Gaming Mouse", Category: domain.CategoryMice, Price: 49, Rating: 4.8, ReviewCount: 120, Stock: 0, Description: "wireless"},
		{Name: "Mechanical Keyboard", Category: domain.CategoryKeyboards, Price: 129, Rating: 4.1, ReviewCount: 10, Stock: 12, Description: "tactile switches"},
		{Name: "4K Monitor", Category: domain.CategoryMonitors, Price: 399, Rating: 3.9, ReviewCount: 8, Stock: 2, Description: "27 inch panel"},
	}
	out := map[string]domain.Product{}
	for i := range items {
		items[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, s.Create(context.Background(), &items[i]))
		out[items[i].Name] = items[i]
	}
	return out
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func ptr(f float64) *float64 { return &f }

func TestProductStoreFind(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	seedCatalog(t, s)

	t.Run("default sort puts featured first then newest", func(t *testing.T) {
		got, total, err := s.Find(ctx, store.ProductQuery{Page: store.Page{Page: 1, Limit: 12}})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Equal(t, []string{"Studio Headphones", "4K Monitor", "Mechanical Keyboard", "Gaming Mouse"}, names(got))
	})

	t.Run("price range and in stock", func(t *testing.T) {
		got, total, err := s.Find(ctx, store.ProductQuery{
			MinPrice: ptr(40), MaxPrice: ptr(200), InStock: true, Sort: store.SortPriceAsc,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Equal(t, []string{"Mechanical Keyboard", "Studio Headphones"}, names(got))
	})

	t.Run("category and rating", func(t *testing.T) {
		got, _, err := s.Find(ctx, store.ProductQuery{Category: domain.CategoryMice, MinRating: ptr(4.5)})
		require.NoError(t, err)
		assert.Equal(t, []string{"Gaming Mouse"}, names(got))
	})

	t.Run("search matches description and tags", func(t *testing.T) {
		got, _, err := s.Find(ctx, store.ProductQuery{Search: "AUDIO tactile", Sort: store.SortPriceDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"Studio Headphones", "Mechanical Keyboard"}, names(got))
	})

	t.Run("pagination reports full total", func(t *testing.T) {
		got, total, err := s.Find(ctx, store.ProductQuery{Sort: store.SortPopular, Page: store.Page{Page: 2, Limit: 3}})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Equal(t, []string{"4K Monitor"}, names(got))
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		got, _, err := s.Find(ctx, store.ProductQuery{Page: store.Page{Page: 9, Limit: 3}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestProductStoreReserveStock(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	p := &domain.Product{Name: "Cable", Stock: 3}
	require.NoError(t, s.Create(ctx, p))

	updated, err := s.ReserveStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Stock)

	_, err = s.ReserveStock(ctx, p.ID, 2)
	assert.ErrorIs(t, err, store.ErrInsufficientStock)

	_, err = s.ReserveStock(ctx, primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	current, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Stock)
}

func TestProductStoreReserveStockNeverOversells(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	p := &domain.Product{Name: "Limited Edition", Stock: 10}
	require.NoError(t, s.Create(ctx, p))

	var wg sync.WaitGroup
	var reserved, rejected atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ReserveStock(ctx, p.ID, 1)
			switch {
			case err == nil:
				reserved.Add(1)
			case errors.Is(err, store.ErrInsufficientStock):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, reserved.Load())
	assert.EqualValues(t, 40, rejected.Load())
	current, _ := s.FindByID(ctx, p.ID)
	assert.Equal(t, 0, current.Stock)
}

func TestProductStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewProductStore()
	p := &domain.Product{Name: "Hub", Images: []string{"a.png"}}
	require.NoError(t, s.Create(ctx, p))

	got, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	got.Images[0] = "mutated.png"

	again, _ := s.FindByID(ctx, p.ID)
	assert.Equal(t, "a.png", again.Images[0])
}

func TestOrderStore(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore()
	owner := primitive.NewObjectID()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first := &domain.Order{User: &owner, Status: domain.StatusPending, Total: 10, CreatedAt: base}
	second := &domain.Order{User: &owner, Status: domain.StatusShipped, Total: 20, CreatedAt: base.Add(time.Hour)}
	guest := &domain.Order{GuestEmail: "g@example.com", Status: domain.StatusPending, Total: 5, CreatedAt: base.Add(2 * time.Hour)}
	for _, o := range []*domain.Order{first, second, guest} {
		require.NoError(t, s.Create(ctx, o))
	}

	mine, err := s.FindByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	pending, total, err := s.Find(ctx, store.OrderQuery{Status: domain.StatusPending, Page: store.Page{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, guest.ID, pending[0].ID)

	first.ApplyStatus(domain.StatusDelivered, true, base.Add(24*time.Hour))
	require.NoError(t, s.UpdateStatus(ctx, first))
	got, err := s.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)
	assert.True(t, got.IsPaid)
	assert.NotNil(t, got.DeliveredAt)

	sums, err := s.Summaries(ctx)
	require.NoError(t, err)
	assert.Len(t, sums, 3)

	err = s.UpdateStatus(ctx, &domain.Order{ID: primitive.NewObjectID()})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserStoreUniqueEmail(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	ada := &domain.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.Create(ctx, ada))

	var dup *store.DuplicateKeyError
	err := s.Create(ctx, &domain.User{Name: "Other", Email: "ada@example.com"})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)

	bob := &domain.User{Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, s.Create(ctx, bob))
	bob.Email = "ada@example.com"
	require.ErrorAs(t, s.Update(ctx, bob), &dup)

	bob.Email = "robert@example.com"
	require.NoError(t, s.Update(ctx, bob))
	_, err = s.FindByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	found, err := s.FindByEmail(ctx, "robert@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, found.ID)

	require.NoError(t, s.Delete(ctx, ada.ID))
	n, _ := s.Count(ctx)
	assert.EqualValues(t, 1, n)
	assert.ErrorIs(t, s.Delete(ctx, ada.ID), store.ErrNotFound)
}
