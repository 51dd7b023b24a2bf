package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID         = "product_id"
	SupplierID        = "supplier_id"
	Name              = "name"
	Description       = "description"
	Category          = "category"
	Price             = "price"
	Unit              = "unit"
	Stock             = "stock"
	Negotiable        = "negotiable"
	DiscountPercent   = "discount_percent"
	DiscountActive    = "discount_active"
	DiscountExpiresAt = "discount_expires_at"
	Image             = "image"
	RatingAverage     = "rating_average"
	RatingCount       = "rating_count"
	Version           = "version"
	CreatedAt         = "created_at"
	UpdatedAt         = "updated_at"

	// Secondary indexes
	IndexBySupplier = "products_by_supplier"
)

// Columns lists every column in Data order.
func Columns() []string {
	return []string{
		ProductID,
		SupplierID,
		Name,
		Description,
		Category,
		Price,
		Unit,
		Stock,
		Negotiable,
		DiscountPercent,
		DiscountActive,
		DiscountExpiresAt,
		Image,
		RatingAverage,
		RatingCount,
		Version,
		CreatedAt,
		UpdatedAt,
	}
}
