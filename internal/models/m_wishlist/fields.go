package m_wishlist

// Field name constants for the wishlist_items table.
const (
	TableName = "wishlist_items"

	UserID    = "user_id"
	ProductID = "product_id"
	AddedAt   = "added_at"

	IndexByProduct = "wishlist_items_by_product"
)

func Columns() []string {
	return []string{UserID, ProductID, AddedAt}
}
