package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/domain"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/store"
)

const defaultUserPageLimit = 20

// DashboardStats are the back-office headline numbers. Revenue sums declared order totals.
type DashboardStats struct {
	TotalProducts   int64   `json:"totalProducts"`
	TotalUsers      int64   `json:"totalUsers"`
	TotalOrders     int     `json:"totalOrders"`
	Revenue         float64 `json:"revenue"`
	WeeklyRevenue   float64 `json:"weeklyRevenue"`
	PendingOrders   int     `json:"pendingOrders"`
	DeliveredOrders int     `json:"deliveredOrders"`
}

type UserPage struct {
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
	Users []domain.User `json:"users"`
}

type AdminService struct {
	products store.ProductStore
	orders   store.OrderStore
	users    store.UserStore
	now      func() time.Time
}

func NewAdminService(products store.ProductStore, orders store.OrderStore, users store.UserStore) *AdminService {
	return &AdminService{products: products, orders: orders, users: users, now: time.Now}
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	summaries, err := s.orders.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load order summaries: %w", err)
	}

	weekAgo := s.now().AddDate(0, 0, -7)
	revenue, weekly := decimal.Zero, decimal.Zero
	stats := &DashboardStats{
		TotalProducts: totalProducts,
		TotalUsers:    totalUsers,
		TotalOrders:   len(summaries),
	}
	for _, o := range summaries {
		total := decimal.NewFromFloat(o.Total)
		revenue = revenue.Add(total)
		if !o.CreatedAt.Before(weekAgo) {
			weekly = weekly.Add(total)
		}
		switch o.Status {
		case domain.StatusPending:
			stats.PendingOrders++
		case domain.StatusDelivered:
			stats.DeliveredOrders++
		}
	}
	stats.Revenue = revenue.InexactFloat64()
	stats.WeeklyRevenue = weekly.InexactFloat64()
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, in PageInput) (*UserPage, error) {
	page := in.toStore(defaultUserPageLimit)
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserPage{Total: total, Page: page.Page, Pages: pageCount(total, page.Limit), Users: users}, nil
}

func (s *AdminService) SetRole(ctx context.Context, actor auth.Identity, rawID, rawRole string) (*domain.User, error) {
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return nil, domain.Validation("Invalid role")
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, userWriteErr(err)
	}
	logger.L(ctx).Info("User role updated",
		zap.String("actor_id", actor.UserID.Hex()),
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", string(role)),
	)
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actor auth.Identity, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.NotFound("User not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	logger.L(ctx).Info("User deleted",
		zap.String("actor_id", actor.UserID.Hex()),
		zap.String("user_id", id.Hex()),
	)
	return nil
}
