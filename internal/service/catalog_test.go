package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/storage"
	"luxegear-backend/internal/store/memory"
)

type fakeImages struct {
	uploads []string
	err     error
}

func (f *fakeImages) UploadImage(_ context.Context, _ []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, contentType)
	return "https://cdn.example.com/products/1.png", nil
}

func ptr[T any](v T) *T { return &v }

func newCatalog(t *testing.T, images storage.ImageStorage) (*CatalogService, *memory.ProductStore) {
	t.Helper()
	products := memory.NewProductStore()
	return NewCatalogService(products, images), products
}

func validProductInput(name string, price float64) ProductInput {
	return ProductInput{
		Name:        ptr(name),
		Category:    ptr(domain.CategoryKeyboards),
		Price:       ptr(price),
		Stock:       ptr(10),
		Description: ptr("A " + name),
	}
}

func TestCatalogCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalog(t, nil)

	p, err := svc.Create(ctx, validProductInput("  Mechanical Keyboard ", 129))
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", p.Name)
	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.Tags)

	got, err := svc.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex())
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, "Product not found")

	_, err = svc.Get(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCatalogCreateValidation(t *testing.T) {
	svc, _ := newCatalog(t, nil)

	in := validProductInput("Keyboard", -1)
	in.Category = ptr(domain.Category("toasters"))
	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrValidation)

	de, ok := domain.AsError(err)
	require.True(t, ok)
	fields := map[string]string{}
	for _, f := range de.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "Invalid category", fields["category"])
	assert.Equal(t, "Price cannot be negative", fields["price"])
}

func TestCatalogUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalog(t, nil)
	p, err := svc.Create(ctx, validProductInput("Keyboard", 100))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID.Hex(), ProductInput{Price: ptr(80.0), OriginalPrice: ptr(100.0)})
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.Price)
	assert.Equal(t, "Keyboard", updated.Name)
	assert.Equal(t, 10, updated.Stock)
	assert.Equal(t, 20, updated.DiscountPercent())

	_, err = svc.Update(ctx, p.ID.Hex(), ProductInput{Stock: ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(ctx, primitive.NewObjectID().Hex(), ProductInput{Price: ptr(1.0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogDelete(t *testing.T) {
	ctx := context.Background()
	svc, products := newCatalog(t, nil)
	p, err := svc.Create(ctx, validProductInput("Keyboard", 100))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID.Hex()))
	n, err := products.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID.Hex()), domain.ErrNotFound)
}

func TestCatalogListPagination(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalog(t, nil)
	for i, price := range []float64{30, 10, 20, 50, 40} {
		in := validProductInput("Keyboard", price)
		if i == 0 {
			in.Stock = ptr(0)
		}
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ProductListInput{PageInput: PageInput{Page: 2, Limit: 2}, Sort: "price-asc"})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Products, 2)
	assert.Equal(t, 30.0, page.Products[0].Price)
	assert.Equal(t, 40.0, page.Products[1].Price)

	inStock, err := svc.List(ctx, ProductListInput{InStock: true, MaxPrice: ptr(35.0)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, inStock.Total)
	assert.Equal(t, 1, inStock.Page)
}

func TestCatalogFeatured(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCatalog(t, nil)
	for i := 0; i < 10; i++ {
		in := validProductInput("Keyboard", 10)
		in.IsFeatured = ptr(true)
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, validProductInput("Plain", 10))
	require.NoError(t, err)

	featured, err := svc.Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, featured, featuredLimit)
	for _, p := range featured {
		assert.True(t, p.IsFeatured)
	}
}

func TestCatalogUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured", func(t *testing.T) {
		svc, _ := newCatalog(t, nil)
		_, err := svc.UploadImage(ctx, []byte("png"), "image/png")
		assert.ErrorIs(t, err, domain.ErrUnavailable)
	})

	t.Run("empty file", func(t *testing.T) {
		svc, _ := newCatalog(t, &fakeImages{})
		_, err := svc.UploadImage(ctx, nil, "image/png")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unsupported type", func(t *testing.T) {
		svc, _ := newCatalog(t, &fakeImages{err: storage.ErrUnsupportedType})
		_, err := svc.UploadImage(ctx, []byte("%PDF"), "application/pdf")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("backend failure is internal", func(t *testing.T) {
		svc, _ := newCatalog(t, &fakeImages{err: errors.New("access denied")})
		_, err := svc.UploadImage(ctx, []byte("png"), "image/png")
		require.Error(t, err)
		_, isDomain := domain.AsError(err)
		assert.False(t, isDomain)
	})

	t.Run("success", func(t *testing.T) {
		images := &fakeImages{}
		svc, _ := newCatalog(t, images)
		url, err := svc.UploadImage(ctx, []byte("png"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/products/1.png", url)
		assert.Equal(t, []string{"image/png"}, images.uploads)
	})
}
