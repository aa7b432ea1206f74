package catalog

import (
	"context"

	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/catalog"
)

// CatalogService serves the public, read-only catalog
type CatalogService struct {
	repo catalog.CatalogRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo catalog.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListShops returns shops that currently accept orders
func (s *CatalogService) ListShops(ctx context.Context) ([]ShopResponse, error) {
	shops, err := s.repo.ListActiveShops(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		resp = append(resp, ToShopResponse(&shops[i]))
	}
	return resp, nil
}

// ListCategories returns all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, ToCategoryResponse(&categories[i]))
	}
	return resp, nil
}

// ListOffers returns offers of active shops matching filter
func (s *CatalogService) ListOffers(ctx context.Context, filter OfferListFilter) ([]OfferResponse, error) {
	offers, err := s.repo.ListOffers(ctx, catalog.OfferFilter{
		ShopID:     filter.ShopID,
		CategoryID: filter.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	resp := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		resp = append(resp, ToOfferResponse(&offers[i]))
	}
	return resp, nil
}
