package services

import (
	"context"

	apperrors "techzone-backend/common/errors"
	"techzone-backend/models"
	"techzone-backend/repository"
)

// OrderService answers order queries. Customers see only their own
// orders; admins see everything.
type OrderService struct {
	orders repository.OrderRepository
	users  repository.UserRepository
}

func NewOrderService(orders repository.OrderRepository, users repository.UserRepository) *OrderService {
	return &OrderService{orders: orders, users: users}
}

func (s *OrderService) FindAll(ctx context.Context, userID, status string) ([]models.Order, *apperrors.Error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.InvalidInput("User not found", nil)
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	filter := repository.OrderFilter{Status: status}
	if user.Type == models.UserTypeCustomer {
		filter.UserID = user.ID
	}

	orders, err := s.orders.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch orders", err)
	}
	if len(orders) == 0 {
		return nil, apperrors.NotFound("No orders found", nil)
	}
	return orders, nil
}

func (s *OrderService) FindOne(ctx context.Context, id string) (*models.Order, *apperrors.Error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("Order not found", nil)
		}
		return nil, apperrors.Internal("Failed to fetch order", err)
	}
	return order, nil
}
