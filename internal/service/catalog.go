package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/storage"
	"luxegear-backend/internal/store"
)

const (
	defaultProductPageLimit = 12
	featuredLimit           = 8
)

type ProductListInput struct {
	PageInput
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   bool
	Sort      string
}

type ProductPage struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Products []domain.Product `json:"products"`
}

// ProductInput is a create or partial update. Nil fields are left unchanged on update.
type ProductInput struct {
	Name          *string          `json:"name"`
	Category      *domain.Category `json:"category"`
	Price         *float64         `json:"price"`
	OriginalPrice *float64         `json:"originalPrice"`
	Rating        *float64         `json:"rating"`
	ReviewCount   *int             `json:"reviewCount"`
	Stock         *int             `json:"stock"`
	NewArrival    *bool            `json:"newArrival"`
	IsSale        *bool            `json:"isSale"`
	IsFeatured    *bool            `json:"isFeatured"`
	Images        []string         `json:"images"`
	Description   *string          `json:"description"`
	Specs         map[string]any   `json:"specs"`
	Tags          []string         `json:"tags"`
}

func (in ProductInput) applyTo(p *domain.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.ReviewCount != nil {
		p.ReviewCount = *in.ReviewCount
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.NewArrival != nil {
		p.NewArrival = *in.NewArrival
	}
	if in.IsSale != nil {
		p.IsSale = *in.IsSale
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Images != nil {
		p.Images = in.Images
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Specs != nil {
		p.Specs = in.Specs
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
}

type CatalogService struct {
	products store.ProductStore
	images   storage.ImageStorage
}

// NewCatalogService wires the catalog. images may be nil when uploads are not configured.
func NewCatalogService(products store.ProductStore, images storage.ImageStorage) *CatalogService {
	return &CatalogService{products: products, images: images}
}

func (s *CatalogService) List(ctx context.Context, in ProductListInput) (*ProductPage, error) {
	q := store.ProductQuery{
		Category:  domain.Category(strings.TrimSpace(in.Category)),
		Search:    strings.TrimSpace(in.Search),
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		MinRating: in.MinRating,
		InStock:   in.InStock,
		Sort:      store.ParseProductSort(in.Sort),
		Page:      in.toStore(defaultProductPageLimit),
	}
	products, total, err := s.products.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return &ProductPage{
		Total:    total,
		Page:     q.Page.Page,
		Pages:    pageCount(total, q.Page.Limit),
		Products: products,
	}, nil
}

func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	products, _, err := s.products.Find(ctx, store.ProductQuery{
		Featured: true,
		Sort:     store.SortNewest,
		Page:     store.Page{Page: 1, Limit: featuredLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("find featured products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, rawID string) (*domain.Product, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := s.products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{}
	in.applyTo(p)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	logger.L(ctx).Info("Product created", zap.String("product_id", p.ID.Hex()), zap.String("name", p.Name))
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, rawID string, in ProductInput) (*domain.Product, error) {
	p, err := s.Get(ctx, rawID)
	if err != nil {
		return nil, err
	}
	in.applyTo(p)
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.NotFound("Product not found")
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("Product not found")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	logger.L(ctx).Info("Product deleted", zap.String("product_id", id.Hex()))
	return nil
}

// UploadImage stores a product image and returns its public URL.
func (s *CatalogService) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.images == nil {
		return "", domain.Unavailable("Image storage is not configured")
	}
	if len(data) == 0 {
		return "", domain.Validation("Image file is required")
	}
	url, err := s.images.UploadImage(ctx, data, contentType)
	if errors.Is(err, storage.ErrUnsupportedType) {
		return "", domain.Validation("Only JPEG, PNG, WebP and GIF images are allowed")
	}
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}
