package services

import (
	"errors"
	"fmt"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderService struct {
	Orders   *repos.OrderRepo
	Products *repos.ProductRepo
}

func NewOrderService(orders *repos.OrderRepo, products *repos.ProductRepo) *OrderService {
	return &OrderService{Orders: orders, Products: products}
}

func (s *OrderService) SellerOrders(sellerID string) ([]domain.Order, error) {
	return s.Orders.BySeller(sellerID)
}

func (s *OrderService) BuyerOrders(buyerID string) ([]domain.Order, error) {
	return s.Orders.ByBuyer(buyerID)
}

// SellerStats aggregates listing count, order count, revenue and pending
// orders for a seller dashboard.
func (s *OrderService) SellerStats(sellerID string) (domain.OrderStats, error) {
	products, err := s.Products.CountBySeller(sellerID)
	if err != nil {
		return domain.OrderStats{}, err
	}
	rows, err := s.Orders.TotalsBySeller(sellerID)
	if err != nil {
		return domain.OrderStats{}, err
	}
	stats := reduceStats(rows)
	stats.ProductsCount = products
	return stats, nil
}

// BuyerStats mirrors SellerStats for the buyer side; Revenue is total
// spend and ProductsCount stays 0.
func (s *OrderService) BuyerStats(buyerID string) (domain.OrderStats, error) {
	rows, err := s.Orders.TotalsByBuyer(buyerID)
	if err != nil {
		return domain.OrderStats{}, err
	}
	return reduceStats(rows), nil
}

// UpdateStatus moves an order to one of the fixed allowed statuses.
func (s *OrderService) UpdateStatus(orderID, status string) (domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, fmt.Errorf("invalid status %q", status)
	}
	n, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return domain.Order{}, err
	}
	if n == 0 {
		return domain.Order{}, ErrOrderNotFound
	}
	return s.Orders.Get(orderID)
}

func reduceStats(rows []repos.AmountStatus) domain.OrderStats {
	stats := domain.OrderStats{OrdersCount: len(rows)}
	for _, r := range rows {
		stats.Revenue += r.TotalAmount
		if r.Status == domain.OrderPending {
			stats.PendingOrdersCount++
		}
	}
	return stats
}
