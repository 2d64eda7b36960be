package services

import (
	"errors"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/domain"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/repos"
)

// ErrNotOwner is returned when a mutation names a seller that does not own
// the target product (or the product does not exist); the write is a no-op.
var ErrNotOwner = errors.New("product not found for seller")

type ProductService struct {
	Products *repos.ProductRepo
}

func NewProductService(products *repos.ProductRepo) *ProductService {
	return &ProductService{Products: products}
}

func (s *ProductService) Add(p domain.Product) (domain.Product, error) {
	return s.Products.Create(p)
}

func (s *ProductService) All() ([]domain.Product, error) {
	return s.Products.All()
}

func (s *ProductService) BySeller(sellerID string) ([]domain.Product, error) {
	return s.Products.BySeller(sellerID)
}

func (s *ProductService) Search(q string) ([]domain.Product, error) {
	return s.Products.Search(q)
}

func (s *ProductService) Feed(limit int) ([]domain.Product, error) {
	return s.Products.Feed(limit)
}

// Update applies the changed fields only when sellerID owns the product.
func (s *ProductService) Update(id, sellerID string, u repos.ProductUpdate) (domain.Product, error) {
	n, err := s.Products.Update(id, sellerID, u)
	if err != nil {
		return domain.Product{}, err
	}
	if n == 0 {
		return domain.Product{}, ErrNotOwner
	}
	return s.Products.Get(id)
}

func (s *ProductService) Delete(id, sellerID string) error {
	n, err := s.Products.Delete(id, sellerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotOwner
	}
	return nil
}
