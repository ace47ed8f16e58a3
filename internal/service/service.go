// Package service holds the storefront use cases: catalog browsing, accounts,
// order placement and the admin back office.
package service

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

const maxPageLimit = 100

// parseID rejects malformed ids the same way for every resource.
func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, domain.Validation("Invalid format")
	}
	return id, nil
}

// PageInput is a 1-based page request as received from a client.
type PageInput struct {
	Page  int
	Limit int
}

func (p PageInput) toStore(defaultLimit int) store.Page {
	page, limit := p.Page, p.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return store.Page{Page: page, Limit: limit}
}

func pageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
