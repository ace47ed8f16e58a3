package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryHeadphones  Category = "headphones"
	CategoryKeyboards   Category = "keyboards"
	CategoryMonitors    Category = "monitors"
	CategoryMice        Category = "mice"
	CategoryAccessories Category = "accessories"
)

// Categories lists every category the catalog accepts.
var Categories = []Category{
	CategoryHeadphones,
	CategoryKeyboards,
	CategoryMonitors,
	CategoryMice,
	CategoryAccessories,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Category      Category           `bson:"category" json:"category"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice" json:"originalPrice"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	Stock         int                `bson:"stock" json:"stock"`
	NewArrival    bool               `bson:"newArrival" json:"newArrival"`
	IsSale        bool               `bson:"isSale" json:"isSale"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	Images        []string           `bson:"images" json:"images"`
	Description   string             `bson:"description" json:"description"`
	Specs         map[string]any     `bson:"specs" json:"specs"`
	Tags          []string           `bson:"tags" json:"tags"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DiscountPercent is the rounded markdown from OriginalPrice to Price, or 0 when not on sale.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice <= p.Price {
		return 0
	}
	original := decimal.NewFromFloat(p.OriginalPrice)
	pct := original.Sub(decimal.NewFromFloat(p.Price)).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return int(pct.IntPart())
}

// PrimaryImage returns the first image reference, if any.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// MarshalJSON adds the derived discountPercent to every serialized product.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		DiscountPercent int `json:"discountPercent"`
	}{plain(p), p.DiscountPercent()})
}

// Normalize trims free-text fields and fills nil collections.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Specs == nil {
		p.Specs = map[string]any{}
	}
}

// Validate checks the persisted-field constraints of a product.
func (p *Product) Validate() error {
	var categoryErr *FieldError
	if !p.Category.Valid() {
		categoryErr = &FieldError{Field: "category", Message: "Invalid category"}
	}
	fields := collect(
		checkVar("name", p.Name, "required", "Name is required"),
		categoryErr,
		checkVar("price", p.Price, "gte=0", "Price cannot be negative"),
		checkVar("originalPrice", p.OriginalPrice, "gte=0", "Original price cannot be negative"),
		checkVar("rating", p.Rating, "gte=0,lte=5", "Rating must be between 0 and 5"),
		checkVar("reviewCount", p.ReviewCount, "gte=0", "Review count cannot be negative"),
		checkVar("stock", p.Stock, "gte=0", "Stock cannot be negative"),
		checkVar("description", strings.TrimSpace(p.Description), "required", "Description is required"),
	)
	if len(fields) > 0 {
		return Validation("", fields...)
	}
	return nil
}

// ProductRef is the projection of a product embedded in order responses.
type ProductRef struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Images []string           `json:"images"`
}

func (p Product) Ref() *ProductRef {
	return &ProductRef{ID: p.ID, Name: p.Name, Images: p.Images}
}
