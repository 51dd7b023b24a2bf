package m_quote

// Field name constants for the quotes table.
const (
	TableName = "quotes"

	QuoteID         = "quote_id"
	ProductID       = "product_id"
	BuyerID         = "buyer_id"
	SupplierID      = "supplier_id"
	ProductName     = "product_name"
	ProductUnit     = "product_unit"
	ProductPrice    = "product_price"
	Quantity        = "quantity"
	Status          = "status"
	CounterPrice    = "counter_price"
	Notes           = "notes"
	SupplierMessage = "supplier_message"
	History         = "history"
	CreatedAt       = "created_at"
	UpdatedAt       = "updated_at"
	Version         = "version"

	// Secondary indexes
	IndexByBuyer    = "quotes_by_buyer"
	IndexBySupplier = "quotes_by_supplier"
)

// Columns lists every column in Data order.
func Columns() []string {
	return []string{
		QuoteID,
		ProductID,
		BuyerID,
		SupplierID,
		ProductName,
		ProductUnit,
		ProductPrice,
		Quantity,
		Status,
		CounterPrice,
		Notes,
		SupplierMessage,
		History,
		CreatedAt,
		UpdatedAt,
		Version,
	}
}
