package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/store"
)

// OrderItemView replaces the line item's product id with the product's current
// name and images. Product is nil once the product has been deleted.
type OrderItemView struct {
	domain.OrderItem
	Product *domain.ProductRef `json:"product"`
}

// OrderView is an order as returned by the retrieval endpoints.
type OrderView struct {
	domain.Order
	User  *domain.UserSummary `json:"user"`
	Items []OrderItemView     `json:"items"`
}

// projector resolves the references embedded in order responses.
type projector struct {
	products store.ProductStore
	users    store.UserStore
}

func (p projector) views(ctx context.Context, orders []domain.Order, withProducts bool) ([]OrderView, error) {
	userIDs := make([]primitive.ObjectID, 0, len(orders))
	var productIDs []primitive.ObjectID
	for _, o := range orders {
		if o.User != nil {
			userIDs = append(userIDs, *o.User)
		}
		if withProducts {
			for _, it := range o.Items {
				productIDs = append(productIDs, it.Product)
			}
		}
	}

	users, err := p.users.FindByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, fmt.Errorf("load order owners: %w", err)
	}
	userByID := make(map[primitive.ObjectID]*domain.UserSummary, len(users))
	for i := range users {
		userByID[users[i].ID] = users[i].Summary()
	}

	refByID := map[primitive.ObjectID]*domain.ProductRef{}
	if withProducts {
		products, err := p.products.FindByIDs(ctx, dedupe(productIDs))
		if err != nil {
			return nil, fmt.Errorf("load order products: %w", err)
		}
		for _, pr := range products {
			refByID[pr.ID] = pr.Ref()
		}
	}

	out := make([]OrderView, len(orders))
	for i, o := range orders {
		v := OrderView{Order: o, Items: make([]OrderItemView, len(o.Items))}
		if o.User != nil {
			v.User = userByID[*o.User]
		}
		for j, it := range o.Items {
			v.Items[j] = OrderItemView{OrderItem: it, Product: refByID[it.Product]}
		}
		out[i] = v
	}
	return out, nil
}

func (p projector) view(ctx context.Context, o *domain.Order) (*OrderView, error) {
	vs, err := p.views(ctx, []domain.Order{*o}, true)
	if err != nil {
		return nil, err
	}
	return &vs[0], nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
