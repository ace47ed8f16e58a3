package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/idempotency"
	"luxegear-backend/internal/store/memory"
	"luxegear-backend/internal/telemetry"
)

type fixture struct {
	products *memory.ProductStore
	orders   *memory.OrderStore
	users    *memory.UserStore
	idem     *idempotency.MemoryStore
	svc      *OrderService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		products: memory.NewProductStore(),
		orders:   memory.NewOrderStore(),
		users:    memory.NewUserStore(),
		idem:     idempotency.NewMemoryStore(0),
	}
	f.svc = NewOrderService(f.products, f.orders, f.users, f.idem, telemetry.NewMetrics(prometheus.NewRegistry()))
	return f
}

func (f *fixture) addProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        name,
		Category:    domain.CategoryAccessories,
		Price:       price,
		Stock:       stock,
		Description: name + " description",
		Images:      []string{name + "-1.jpg", name + "-2.jpg"},
	}
	p.Normalize()
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) addUser(t *testing.T, name, email string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) stock(t *testing.T, p *domain.Product) int {
	t.Helper()
	current, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	return current.Stock
}

func (f *fixture) orderCount(t *testing.T) int {
	t.Helper()
	sums, err := f.orders.Summaries(context.Background())
	require.NoError(t, err)
	return len(sums)
}

func f64(v float64) *float64 { return &v }

func validShipping() domain.Shipping {
	return domain.Shipping{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   "1 Analytical Way",
		City:      "London",
		Zip:       "N1",
	}
}

func orderFor(items ...CartItem) PlaceOrderInput {
	return PlaceOrderInput{
		Items:    items,
		Shipping: validShipping(),
		Subtotal: f64(0),
		Total:    f64(0),
	}
}

func line(p *domain.Product, qty int) CartItem {
	return CartItem{ID: p.ID.Hex(), Name: p.Name, Quantity: qty}
}

func userIdentity(u *domain.User) auth.Identity {
	return auth.IdentityOf(u)
}
