package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// OrderItem is a snapshot of a product taken when the order was placed.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Shipping struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Zip       string `bson:"zip" json:"zip"`
	Country   string `bson:"country" json:"country"`
}

// Validate enforces the shipping fields an order cannot be fulfilled without.
func (s *Shipping) Validate() error {
	s.Email = strings.TrimSpace(s.Email)
	if s.Country == "" {
		s.Country = "US"
	}
	fields := collect(
		checkVar("shipping.address", strings.TrimSpace(s.Address), "required", "Shipping address is required"),
		checkVar("shipping.city", strings.TrimSpace(s.City), "required", "Shipping city is required"),
		checkVar("shipping.email", s.Email, "omitempty,email", "Invalid shipping email address"),
	)
	if len(fields) > 0 {
		return Validation("", fields...)
	}
	return nil
}

// Order is immutable after placement apart from Status, IsPaid, PaidAt and DeliveredAt.
// Exactly one of User and GuestEmail is set.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User            *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	GuestEmail      string              `bson:"guestEmail,omitempty" json:"guestEmail,omitempty"`
	Items           []OrderItem         `bson:"items" json:"items"`
	Shipping        Shipping            `bson:"shipping" json:"shipping"`
	CouponCode      string              `bson:"couponCode" json:"couponCode"`
	DiscountPercent float64             `bson:"discountPercent" json:"discountPercent"`
	Subtotal        float64             `bson:"subtotal" json:"subtotal"`
	DiscountAmount  float64             `bson:"discountAmount" json:"discountAmount"`
	ShippingCost    float64             `bson:"shippingCost" json:"shippingCost"`
	Total           float64             `bson:"total" json:"total"`
	Status          OrderStatus         `bson:"status" json:"status"`
	IsPaid          bool                `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time          `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	DeliveredAt     *time.Time          `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the order belongs to the given user. Guest orders have no user owner.
func (o *Order) OwnedBy(userID primitive.ObjectID) bool {
	return o.User != nil && *o.User == userID
}

// ItemsSubtotal recomputes the line-item sum from the snapshotted unit prices.
func (o *Order) ItemsSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// ApplyStatus moves the order to status. Delivery stamps DeliveredAt; markPaid stamps
// PaidAt the first time the order is marked paid.
func (o *Order) ApplyStatus(status OrderStatus, markPaid bool, now time.Time) {
	o.Status = status
	if status == StatusDelivered {
		o.DeliveredAt = &now
	}
	if markPaid && !o.IsPaid {
		o.IsPaid = true
		o.PaidAt = &now
	}
	o.UpdatedAt = now
}

// OrderSummary is the slice of an order the admin dashboard aggregates over.
type OrderSummary struct {
	Total     float64     `bson:"total"`
	Status    OrderStatus `bson:"status"`
	CreatedAt time.Time   `bson:"createdAt"`
}
