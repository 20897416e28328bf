package services

import (
	"context"

	apperrors "techzone-backend/common/errors"
	"techzone-backend/models"
	"techzone-backend/repository"

	"github.com/google/uuid"
)

// ProductService covers the product-side supporting operations: license
// pool administration and review aggregate maintenance.
type ProductService struct {
	products repository.ProductRepository
	licenses repository.LicenseRepository
}

func NewProductService(products repository.ProductRepository, licenses repository.LicenseRepository) *ProductService {
	return &ProductService{products: products, licenses: licenses}
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*models.Product, *apperrors.Error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("Product does not exist", nil)
		}
		return nil, apperrors.Internal("Failed to fetch product", err)
	}
	return product, nil
}

// AddLicense adds an unsold license to a SKU's pool.
func (s *ProductService) AddLicense(ctx context.Context, productID, skuID, licenseKey string) (*models.License, *apperrors.Error) {
	if licenseKey == "" {
		return nil, apperrors.InvalidInput("License key is required", nil)
	}

	product, appErr := s.GetProduct(ctx, productID)
	if appErr != nil {
		return nil, appErr
	}
	if product.SkuByID(skuID) == nil {
		return nil, apperrors.NotFound("Sku does not exist", nil)
	}

	license := &models.License{
		ID:         uuid.NewString(),
		ProductID:  productID,
		ProductSku: skuID,
		LicenseKey: licenseKey,
	}
	if err := s.licenses.Create(ctx, license); err != nil {
		return nil, apperrors.Internal("Failed to create license", err)
	}
	return license, nil
}

func (s *ProductService) RemoveLicense(ctx context.Context, licenseID string) *apperrors.Error {
	if err := s.licenses.Delete(ctx, licenseID); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("License does not exist", nil)
		}
		return apperrors.Internal("Failed to remove license", err)
	}
	return nil
}

func (s *ProductService) GetLicenses(ctx context.Context, skuID string) ([]models.License, *apperrors.Error) {
	licenses, err := s.licenses.FindBySku(ctx, skuID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch licenses", err)
	}
	return licenses, nil
}

func (s *ProductService) UpdateLicense(ctx context.Context, licenseID, licenseKey string) (*models.License, *apperrors.Error) {
	if licenseKey == "" {
		return nil, apperrors.InvalidInput("License key is required", nil)
	}
	license, err := s.licenses.UpdateKey(ctx, licenseID, licenseKey)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NotFound("License does not exist", nil)
		}
		return nil, apperrors.Internal("Failed to update license", err)
	}
	return license, nil
}

// AddReview appends a review and recomputes the average rating in the
// same update.
func (s *ProductService) AddReview(ctx context.Context, productID string, user *models.User, rating int, message string) *apperrors.Error {
	if rating < 1 || rating > 5 {
		return apperrors.InvalidInput("Rating must be between 1 and 5", nil)
	}

	product, appErr := s.GetProduct(ctx, productID)
	if appErr != nil {
		return appErr
	}
	for _, fb := range product.FeedbackDetails {
		if fb.CustomerID == user.ID {
			return apperrors.Conflict("You have already reviewed this product", nil)
		}
	}

	sum := rating
	for _, fb := range product.FeedbackDetails {
		sum += fb.Rating
	}
	avg := float64(sum) / float64(len(product.FeedbackDetails)+1)

	review := models.Feedback{
		ID:           uuid.NewString(),
		CustomerID:   user.ID,
		CustomerName: user.Name,
		Rating:       rating,
		FeedbackMsg:  message,
	}
	if err := s.products.AddReview(ctx, productID, review, avg); err != nil {
		return apperrors.Internal("Failed to add review", err)
	}
	return nil
}

func (s *ProductService) RemoveReview(ctx context.Context, productID, reviewID string) *apperrors.Error {
	product, appErr := s.GetProduct(ctx, productID)
	if appErr != nil {
		return appErr
	}

	sum := 0
	count := 0
	found := false
	for _, fb := range product.FeedbackDetails {
		if fb.ID == reviewID {
			found = true
			continue
		}
		sum += fb.Rating
		count++
	}
	if !found {
		return apperrors.NotFound("Review does not exist", nil)
	}

	avg := 0.0
	if count > 0 {
		avg = float64(sum) / float64(count)
	}
	if err := s.products.RemoveReview(ctx, productID, reviewID, avg); err != nil {
		return apperrors.Internal("Failed to remove review", err)
	}
	return nil
}
