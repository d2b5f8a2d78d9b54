package catalog

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/noah-isme/storefront-admin/internal/common"
)

// ProductInput is the admin payload for creating or updating a product.
type ProductInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Slug        string  `json:"slug" validate:"required,max=200"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"priceCents" validate:"gte=0"`
	Stock       int32   `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
}

// BundleInput is the admin payload for creating or updating a bundle.
type BundleInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"required,max=200"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"priceCents" validate:"gte=0"`
	ProductIDs  []string `json:"productIds" validate:"required,min=1,dive,uuid"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (ProductRow, error) {
	if err := s.validate.Struct(in); err != nil {
		return ProductRow{}, validationError(err)
	}
	row, err := s.store.InsertProduct(ctx, productFromInput(in))
	if err != nil {
		return ProductRow{}, err
	}
	s.cache.Bump(ctx)
	return row, nil
}

// UpdateProduct validates and rewrites an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (ProductRow, error) {
	if err := s.validate.Struct(in); err != nil {
		return ProductRow{}, validationError(err)
	}
	row := productFromInput(in)
	row.ID = id
	updated, err := s.store.UpdateProduct(ctx, row)
	if err != nil {
		return ProductRow{}, err
	}
	s.cache.Bump(ctx)
	return updated, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

// CreateBundle validates and stores a new bundle.
func (s *Service) CreateBundle(ctx context.Context, in BundleInput) (BundleRow, error) {
	row, err := s.bundleFromInput(in)
	if err != nil {
		return BundleRow{}, err
	}
	created, err := s.store.InsertBundle(ctx, row)
	if err != nil {
		return BundleRow{}, err
	}
	s.cache.Bump(ctx)
	return created, nil
}

// UpdateBundle validates and rewrites an existing bundle.
func (s *Service) UpdateBundle(ctx context.Context, id uuid.UUID, in BundleInput) (BundleRow, error) {
	row, err := s.bundleFromInput(in)
	if err != nil {
		return BundleRow{}, err
	}
	row.ID = id
	updated, err := s.store.UpdateBundle(ctx, row)
	if err != nil {
		return BundleRow{}, err
	}
	s.cache.Bump(ctx)
	return updated, nil
}

// DeleteBundle removes a bundle.
func (s *Service) DeleteBundle(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteBundle(ctx, id); err != nil {
		return err
	}
	s.cache.Bump(ctx)
	return nil
}

func (s *Service) bundleFromInput(in BundleInput) (BundleRow, error) {
	if err := s.validate.Struct(in); err != nil {
		return BundleRow{}, validationError(err)
	}
	ids := make([]uuid.UUID, 0, len(in.ProductIDs))
	for _, v := range in.ProductIDs {
		id, err := uuid.Parse(v)
		if err != nil {
			return BundleRow{}, common.NewAppError("VALIDATION_ERROR", "invalid product id in bundle", http.StatusUnprocessableEntity, err)
		}
		ids = append(ids, id)
	}
	return BundleRow{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		ProductIDs:  ids,
		ImageURL:    in.ImageURL,
	}, nil
}

func productFromInput(in ProductInput) ProductRow {
	return ProductRow{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
}

func validationError(err error) error {
	return common.NewAppError("VALIDATION_ERROR", err.Error(), http.StatusUnprocessableEntity, err)
}
