package m_wishlist

import "time"

// Data represents the database model for the wishlist_items table.
type Data struct {
	UserID    string    `spanner:"user_id"`
	ProductID string    `spanner:"product_id"`
	AddedAt   time.Time `spanner:"added_at"`
}
