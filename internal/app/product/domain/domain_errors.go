package domain

import "github.com/light-bringer/rawsy-service/internal/pkg/apperr"

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound = apperr.New(apperr.KindNotFound, "product not found")
	ErrEmptyName       = apperr.New(apperr.KindValidation, "product name cannot be empty")
	ErrInvalidCategory = apperr.New(apperr.KindValidation, "product category cannot be empty")
	ErrInvalidPrice    = apperr.New(apperr.KindValidation, "product price must be positive")
	ErrInvalidUnit     = apperr.New(apperr.KindValidation, "product unit cannot be empty")
	ErrNegativeStock   = apperr.New(apperr.KindValidation, "product stock cannot be negative")
	ErrNoChanges       = apperr.New(apperr.KindValidation, "update contains no changes")

	// Query errors
	ErrInvalidPageToken  = apperr.New(apperr.KindValidation, "invalid page token")
	ErrInvalidPriceRange = apperr.New(apperr.KindValidation, "price range bounds must be non-negative with min not above max")

	// Discount errors
	ErrInvalidDiscountPercent = apperr.New(apperr.KindValidation, "discount percentage must be between 0 and 100")

	// Access errors
	ErrSupplierOnly    = apperr.New(apperr.KindForbidden, "only suppliers can list products")
	ErrNotProductOwner = apperr.New(apperr.KindForbidden, "not authorized to modify this product")

	// Concurrency errors
	ErrVersionConflict = apperr.New(apperr.KindConflict, "product was modified concurrently")
)
