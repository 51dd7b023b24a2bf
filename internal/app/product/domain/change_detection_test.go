package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(price *int64, stock *int64) Snapshot {
	s := Snapshot{Stock: stock}
	if price != nil {
		m := MoneyFromInt(*price)
		s.Price = &m
	}
	return s
}

func i64(v int64) *int64 { return &v }

func TestDetectChanges(t *testing.T) {
	tests := []struct {
		name   string
		before Snapshot
		after  Snapshot
		want   []ChangeKind
	}{
		{"price drop", snap(i64(100), i64(5)), snap(i64(80), i64(5)), []ChangeKind{ChangePriceDrop}},
		{"unchanged price", snap(i64(100), i64(5)), snap(i64(100), i64(5)), nil},
		{"price increase", snap(i64(100), i64(5)), snap(i64(120), i64(5)), nil},
		{"old price absent", snap(nil, i64(5)), snap(i64(80), i64(5)), nil},
		{"new price absent", snap(i64(100), i64(5)), snap(nil, i64(5)), nil},
		{"restock from zero", snap(i64(100), i64(0)), snap(i64(100), i64(5)), []ChangeKind{ChangeBackInStock}},
		{"restock from absent", snap(i64(100), nil), snap(i64(100), i64(3)), []ChangeKind{ChangeBackInStock}},
		{"sold out", snap(i64(100), i64(5)), snap(i64(100), i64(0)), nil},
		{"still out", snap(i64(100), i64(0)), snap(i64(100), i64(0)), nil},
		{"stock to absent", snap(i64(100), i64(0)), snap(i64(100), nil), nil},
		{"already in stock", snap(i64(100), i64(2)), snap(i64(100), i64(7)), nil},
		{"both", snap(i64(100), i64(0)), snap(i64(90), i64(4)), []ChangeKind{ChangePriceDrop, ChangeBackInStock}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectChanges(tt.before, tt.after)
			kinds := make([]ChangeKind, 0, len(got))
			for _, ev := range got {
				kinds = append(kinds, ev.Kind)
			}
			if tt.want == nil {
				assert.Empty(t, kinds)
				return
			}
			assert.Equal(t, tt.want, kinds)
		})
	}
}

func TestDetectChanges_PriceDropPayload(t *testing.T) {
	events := DetectChanges(snap(i64(100), i64(5)), snap(i64(80), i64(5)))
	require.Len(t, events, 1)
	assert.Equal(t, "100", events[0].OldPrice.String())
	assert.Equal(t, "80", events[0].NewPrice.String())
}
