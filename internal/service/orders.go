package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/idempotency"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/store"
	"luxegear-backend/internal/telemetry"
)

const defaultOrderPageLimit = 20

// CartItem is one requested line. Clients send the product id as either "id" or "product".
type CartItem struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func (c CartItem) productID() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Product
}

// displayName is how the client referred to the product, used in not-found messages.
func (c CartItem) displayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.productID()
}

// PlaceOrderInput carries the checkout payload. Monetary fields are client-declared and
// stored as given.
type PlaceOrderInput struct {
	Items           []CartItem      `json:"items"`
	Shipping        domain.Shipping `json:"shipping"`
	CouponCode      string          `json:"couponCode"`
	DiscountPercent float64         `json:"discountPercent"`
	Subtotal        *float64        `json:"subtotal"`
	DiscountAmount  float64         `json:"discountAmount"`
	ShippingCost    float64         `json:"shippingCost"`
	Total           *float64        `json:"total"`
	GuestEmail      string          `json:"guestEmail"`
	IdempotencyKey  string          `json:"-"`
}

// PlaceOrderResult is the created order. Replayed is set when the order was created by an
// earlier request with the same idempotency key.
type PlaceOrderResult struct {
	Order    *domain.Order
	Replayed bool
}

type OrderListInput struct {
	PageInput
	Status string
}

type OrderPage struct {
	Total  int64       `json:"total"`
	Page   int         `json:"page"`
	Pages  int         `json:"pages"`
	Orders []OrderView `json:"orders"`
}

type OrderService struct {
	products store.ProductStore
	orders   store.OrderStore
	idem     idempotency.Store
	metrics  *telemetry.Metrics
	project  projector
	now      func() time.Time
}

func NewOrderService(
	products store.ProductStore,
	orders store.OrderStore,
	users store.UserStore,
	idem idempotency.Store,
	metrics *telemetry.Metrics,
) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		idem:     idem,
		metrics:  metrics,
		project:  projector{products: products, users: users},
		now:      time.Now,
	}
}

// reservation is a validated cart line ready to be reserved.
type reservation struct {
	item CartItem
	id   primitive.ObjectID
}

// PlaceOrder validates the checkout, reserves stock line by line and persists the order.
//
// Reservations are committed one at a time. When a later line fails, earlier lines stay
// reserved; the caller sees the failure and no order is written.
func (s *OrderService) PlaceOrder(ctx context.Context, who auth.Identity, in PlaceOrderInput) (res *PlaceOrderResult, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "OrderService.PlaceOrder")
	defer span.End()
	span.SetAttributes(
		attribute.Int("order.items", len(in.Items)),
		attribute.Bool("order.guest", !who.Authenticated),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if de, ok := domain.AsError(err); ok {
				s.metrics.OrderFailed(de.Code)
			} else {
				s.metrics.OrderFailed("internal")
			}
		}
	}()

	order, lines, err := s.prepare(who, in)
	if err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" {
		scope := ownerScope(order)
		if replay, err := s.recall(ctx, scope, in.IdempotencyKey); err != nil || replay != nil {
			return replay, err
		}
		var locked bool
		locked, err = s.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("claim idempotency key: %w", err)
		}
		if !locked {
			return nil, domain.DuplicateRequest()
		}
		defer func() {
			if err != nil {
				if relErr := s.idem.Release(context.WithoutCancel(ctx), scope, in.IdempotencyKey); relErr != nil {
					logger.L(ctx).Warn("Failed to release idempotency key", zap.Error(relErr))
				}
			}
		}()
	}

	for _, line := range lines {
		item, err := s.reserve(ctx, line)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if declared := decimal.NewFromFloat(order.Subtotal); !declared.Equal(order.ItemsSubtotal()) {
		logger.L(ctx).Warn("Declared subtotal differs from line items",
			zap.String("declared", declared.String()),
			zap.String("computed", order.ItemsSubtotal().String()),
		)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, ownerScope(order), in.IdempotencyKey, order.ID.Hex()); err != nil {
			logger.L(ctx).Warn("Failed to remember idempotency key", zap.Error(err))
		}
	}

	span.SetAttributes(attribute.String("order.id", order.ID.Hex()))
	s.metrics.OrderPlaced(order.User == nil, order.Total)
	logger.L(ctx).Info("Order placed",
		zap.String("order_id", order.ID.Hex()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return &PlaceOrderResult{Order: order}, nil
}

// prepare runs every check that does not touch stock and builds the order shell.
func (s *OrderService) prepare(who auth.Identity, in PlaceOrderInput) (*domain.Order, []reservation, error) {
	if len(in.Items) == 0 {
		return nil, nil, domain.EmptyCart()
	}

	order := &domain.Order{
		Shipping:        in.Shipping,
		CouponCode:      in.CouponCode,
		DiscountPercent: in.DiscountPercent,
		DiscountAmount:  in.DiscountAmount,
		ShippingCost:    in.ShippingCost,
		Status:          domain.StatusPending,
		Items:           make([]domain.OrderItem, 0, len(in.Items)),
	}
	if who.Authenticated {
		uid := who.UserID
		order.User = &uid
	} else {
		guest := strings.TrimSpace(in.GuestEmail)
		if guest == "" {
			guest = strings.TrimSpace(in.Shipping.Email)
		}
		if guest == "" {
			return nil, nil, domain.Validation("Guest email is required",
				domain.FieldError{Field: "guestEmail", Message: "Guest email is required"})
		}
		order.GuestEmail = domain.NormalizeEmail(guest)
	}

	if err := order.Shipping.Validate(); err != nil {
		return nil, nil, err
	}

	var fields []domain.FieldError
	if in.Subtotal == nil {
		fields = append(fields, domain.FieldError{Field: "subtotal", Message: "Subtotal is required"})
	} else {
		order.Subtotal = *in.Subtotal
	}
	if in.Total == nil {
		fields = append(fields, domain.FieldError{Field: "total", Message: "Total is required"})
	} else {
		order.Total = *in.Total
	}
	if len(fields) > 0 {
		return nil, nil, domain.Validation("", fields...)
	}

	lines := make([]reservation, 0, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity < 1 {
			return nil, nil, domain.Validation("Quantity must be at least 1",
				domain.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "Quantity must be at least 1"})
		}
		id, err := parseID(item.productID())
		if err != nil {
			return nil, nil, err
		}
		lines = append(lines, reservation{item: item, id: id})
	}
	return order, lines, nil
}

// reserve decrements stock for one line and snapshots the product into an order item.
func (s *OrderService) reserve(ctx context.Context, line reservation) (domain.OrderItem, error) {
	product, err := s.products.ReserveStock(ctx, line.id, line.item.Quantity)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.metrics.StockReserved("not_found")
		return domain.OrderItem{}, domain.ProductNotFound(line.item.displayName())
	case errors.Is(err, store.ErrInsufficientStock):
		s.metrics.StockReserved("insufficient")
		return domain.OrderItem{}, domain.InsufficientStock(s.productName(ctx, line))
	case err != nil:
		return domain.OrderItem{}, fmt.Errorf("reserve stock for %s: %w", line.id.Hex(), err)
	}
	s.metrics.StockReserved("ok")

	return domain.OrderItem{
		Product:  product.ID,
		Name:     product.Name,
		Image:    product.PrimaryImage(),
		Price:    product.Price,
		Quantity: line.item.Quantity,
	}, nil
}

func (s *OrderService) productName(ctx context.Context, line reservation) string {
	if p, err := s.products.FindByID(ctx, line.id); err == nil {
		return p.Name
	}
	return line.item.displayName()
}

func (s *OrderService) recall(ctx context.Context, scope, key string) (*PlaceOrderResult, error) {
	val, found, err := s.idem.Recall(ctx, scope, key)
	if err != nil {
		return nil, fmt.Errorf("recall idempotency key: %w", err)
	}
	if !found {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(val)
	if err != nil {
		return nil, fmt.Errorf("remembered order id %q: %w", val, err)
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load remembered order: %w", err)
	}
	s.metrics.IdempotentReplay()
	return &PlaceOrderResult{Order: order, Replayed: true}, nil
}

func ownerScope(o *domain.Order) string {
	if o.User != nil {
		return "user:" + o.User.Hex()
	}
	return "guest:" + o.GuestEmail
}

// GetOrder returns an order to its owner or to an admin. Unknown ids are reported as not
// found before any ownership check.
func (s *OrderService) GetOrder(ctx context.Context, who auth.Identity, rawID string) (*OrderView, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if !who.IsAdmin() && !order.OwnedBy(who.UserID) {
		return nil, domain.Forbidden("Not authorized")
	}
	return s.project.view(ctx, order)
}

// ListMyOrders returns the user's orders, newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, userID primitive.ObjectID) ([]OrderView, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user orders: %w", err)
	}
	return s.project.views(ctx, orders, true)
}

// ListOrders is the admin listing, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, in OrderListInput) (*OrderPage, error) {
	q := store.OrderQuery{Page: in.toStore(defaultOrderPageLimit)}
	if in.Status != "" {
		status, ok := domain.ParseOrderStatus(in.Status)
		if !ok {
			return nil, domain.Validation("Invalid status")
		}
		q.Status = status
	}

	orders, total, err := s.orders.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	views, err := s.project.views(ctx, orders, false)
	if err != nil {
		return nil, err
	}
	return &OrderPage{
		Total:  total,
		Page:   q.Page.Page,
		Pages:  pageCount(total, q.Page.Limit),
		Orders: views,
	}, nil
}

// UpdateStatus moves an order to a new status. isPaid=true marks an unpaid order paid.
func (s *OrderService) UpdateStatus(ctx context.Context, rawID, rawStatus string, isPaid *bool) (*domain.Order, error) {
	status, ok := domain.ParseOrderStatus(rawStatus)
	if !ok {
		return nil, domain.Validation("Invalid status")
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	order.ApplyStatus(status, isPaid != nil && *isPaid, s.now().UTC())
	if err := s.orders.UpdateStatus(ctx, order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.NotFound("Order not found")
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	logger.L(ctx).Info("Order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("status", string(order.Status)),
	)
	return order, nil
}
