package main

import (
	"fmt"
	"math"

	"github.com/brianvoe/gofakeit/v7"

	"luxegear-backend/internal/domain"
)

var categoryNouns = map[domain.Category][]string{
	domain.CategoryHeadphones:  {"Headphones", "Earbuds", "Headset"},
	domain.CategoryKeyboards:   {"Keyboard", "Keypad", "Keycap Set"},
	domain.CategoryMonitors:    {"Monitor", "Display", "Ultrawide"},
	domain.CategoryMice:        {"Mouse", "Trackball", "Mouse Pad"},
	domain.CategoryAccessories: {"Dock", "Cable", "Stand"},
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// fakeProduct builds a valid product in category. A third of the products are on sale.
func fakeProduct(f *gofakeit.Faker, category domain.Category) *domain.Product {
	nouns := categoryNouns[category]
	price := roundCents(f.Price(19, 899))
	p := &domain.Product{
		Name:        fmt.Sprintf("%s %s %s", f.Company(), f.Adjective(), nouns[f.IntN(len(nouns))]),
		Category:    category,
		Price:       price,
		Rating:      roundCents(f.Float64Range(3, 5)),
		ReviewCount: f.IntRange(0, 2000),
		Stock:       f.IntRange(0, 150),
		NewArrival:  f.Bool(),
		IsFeatured:  f.IntN(4) == 0,
		Images:      []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.UUID())},
		Description: f.Paragraph(2, 3, 12, " "),
		Specs: map[string]any{
			"color":    f.Color(),
			"warranty": fmt.Sprintf("%d years", f.IntRange(1, 3)),
		},
		Tags: []string{string(category), f.Word(), f.Word()},
	}
	if f.IntN(3) == 0 {
		p.IsSale = true
		p.OriginalPrice = roundCents(price * f.Float64Range(1.1, 1.5))
	}
	p.Normalize()
	return p
}
