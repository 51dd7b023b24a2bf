package repo

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"

	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/models/m_quote"
)

// numericScale is the number of fractional digits Spanner NUMERIC keeps.
const numericScale = 9

func domainToData(q *domain.Quote) *m_quote.Data {
	entries := make([]m_quote.HistoryEntry, 0, len(q.History()))
	for _, h := range q.History() {
		entries = append(entries, m_quote.HistoryEntry{
			From:    string(h.From),
			To:      string(h.To),
			Action:  string(h.Action),
			ActorID: h.ActorID,
			Role:    string(h.Side),
			At:      h.At,
		})
	}

	data := &m_quote.Data{
		QuoteID:         q.ID(),
		ProductID:       q.ProductID(),
		BuyerID:         q.BuyerID(),
		SupplierID:      q.SupplierID(),
		ProductName:     q.Snapshot().Name,
		ProductUnit:     q.Snapshot().Unit,
		ProductPrice:    *q.Snapshot().Price.Amount().Rat(),
		Quantity:        q.Quantity(),
		Status:          string(q.Status()),
		Notes:           q.Notes(),
		SupplierMessage: q.SupplierMessage(),
		History:         spanner.NullJSON{Value: entries, Valid: true},
		CreatedAt:       q.CreatedAt(),
		UpdatedAt:       q.UpdatedAt(),
		Version:         q.Version(),
	}
	if cp := q.CounterPrice(); cp != nil {
		data.CounterPrice = spanner.NullNumeric{Numeric: *cp.Amount().Rat(), Valid: true}
	}
	return data
}

func dataToDomain(data *m_quote.Data) (*domain.Quote, error) {
	history, err := decodeHistory(data.History)
	if err != nil {
		return nil, err
	}

	var counter *productdomain.Money
	if data.CounterPrice.Valid {
		m := productdomain.NewMoney(decimal.NewFromBigRat(&data.CounterPrice.Numeric, numericScale))
		counter = &m
	}

	return domain.ReconstructQuote(domain.ReconstructParams{
		ID:         data.QuoteID,
		ProductID:  data.ProductID,
		BuyerID:    data.BuyerID,
		SupplierID: data.SupplierID,
		Snapshot: domain.ProductSnapshot{
			Name:  data.ProductName,
			Unit:  data.ProductUnit,
			Price: productdomain.NewMoney(decimal.NewFromBigRat(&data.ProductPrice, numericScale)),
		},
		Quantity:        data.Quantity,
		Status:          domain.Status(data.Status),
		CounterPrice:    counter,
		Notes:           data.Notes,
		SupplierMessage: data.SupplierMessage,
		History:         history,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
		Version:         data.Version,
	}), nil
}

// decodeHistory round-trips the JSON column through its typed entry shape.
func decodeHistory(col spanner.NullJSON) ([]domain.HistoryEntry, error) {
	if !col.Valid || col.Value == nil {
		return nil, nil
	}

	raw, err := json.Marshal(col.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote history: %w", err)
	}
	var entries []m_quote.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode quote history: %w", err)
	}

	out := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.HistoryEntry{
			From:    domain.Status(e.From),
			To:      domain.Status(e.To),
			Action:  domain.Action(e.Action),
			ActorID: e.ActorID,
			Side:    domain.Side(e.Role),
			At:      e.At,
		})
	}
	return out, nil
}
