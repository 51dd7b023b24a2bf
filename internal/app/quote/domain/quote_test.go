package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productdomain "github.com/light-bringer/rawsy-service/internal/app/product/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/actor"
	"github.com/light-bringer/rawsy-service/internal/pkg/apperr"
)

var (
	now      = time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC)
	buyer    = actor.Actor{UserID: "buyer-1", Role: actor.RoleBuyer}
	supplier = actor.Actor{UserID: "sup-1", Role: actor.RoleSupplier}
	admin    = actor.Actor{UserID: "adm-1", Role: actor.RoleAdmin}

	allStatuses = []Status{
		StatusPending, StatusSupplierCounter, StatusSupplierAccept, StatusBuyerAccept,
		StatusRejected, StatusBuyerCancel, StatusConverted,
	}
	allActions = []Action{ActionCounter, ActionAccept, ActionReject, ActionCancel, ActionConvert}
)

func newProduct(t *testing.T, negotiable bool) *productdomain.Product {
	t.Helper()
	p, err := productdomain.NewProduct(productdomain.NewProductParams{
		ID:         "p-1",
		SupplierID: supplier.UserID,
		Name:       "Portland Cement",
		Category:   "construction",
		Price:      productdomain.MoneyFromInt(50),
		Unit:       "bag",
		Stock:      0,
		Negotiable: negotiable,
	}, now)
	require.NoError(t, err)
	return p
}

func quoteIn(status Status) *Quote {
	var counter *productdomain.Money
	if status == StatusSupplierCounter || status == StatusBuyerAccept {
		c := productdomain.MoneyFromInt(45)
		counter = &c
	}
	return ReconstructQuote(ReconstructParams{
		ID:           "q-1",
		ProductID:    "p-1",
		BuyerID:      buyer.UserID,
		SupplierID:   supplier.UserID,
		Snapshot:     ProductSnapshot{Name: "Portland Cement", Unit: "bag", Price: productdomain.MoneyFromInt(50)},
		Quantity:     10,
		Status:       status,
		CounterPrice: counter,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      4,
	})
}

func TestNewQuote(t *testing.T) {
	product := newProduct(t, true)

	q, err := NewQuote("q-1", buyer, product, 10, "  need delivery by friday ", now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, q.Status())
	assert.Equal(t, "sup-1", q.SupplierID())
	assert.Equal(t, "need delivery by friday", q.Notes())
	assert.Nil(t, q.CounterPrice())
	assert.Equal(t, "50", q.Snapshot().Price.String())
	assert.Equal(t, int64(1), q.Version())
	require.Len(t, q.DomainEvents(), 1)
	assert.Equal(t, "quote.requested", q.DomainEvents()[0].EventType())
}

func TestTransition_BumpsVersion(t *testing.T) {
	q := quoteIn(StatusSupplierCounter)
	counter := productdomain.MoneyFromInt(60)

	_, err := q.Transition(supplier, ActionCounter, TransitionInput{CounterPrice: &counter}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusSupplierCounter, q.Status())
	assert.Equal(t, int64(5), q.Version())

	_, err = q.Transition(buyer, ActionCancel, TransitionInput{}, now)
	require.Error(t, err)
	assert.Equal(t, int64(5), q.Version())
}

func TestNewQuote_SnapshotIsImmutable(t *testing.T) {
	product := newProduct(t, true)
	q, err := NewQuote("q-1", buyer, product, 10, "", now)
	require.NoError(t, err)

	newName := "Premium Cement"
	newPrice := productdomain.MoneyFromInt(70)
	require.NoError(t, product.Apply(productdomain.Patch{Name: &newName, Price: &newPrice}, now.Add(time.Hour)))

	assert.Equal(t, "Portland Cement", q.Snapshot().Name)
	assert.Equal(t, "50", q.Snapshot().Price.String())
}

func TestNewQuote_Validation(t *testing.T) {
	_, err := NewQuote("q", buyer, newProduct(t, false), 10, "", now)
	assert.ErrorIs(t, err, ErrNotNegotiable)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = NewQuote("q", buyer, newProduct(t, true), 0, "", now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewQuote("q", supplier, newProduct(t, true), 1, "", now)
	assert.ErrorIs(t, err, ErrBuyerOnly)
}

func TestNextStatus_Exhaustive(t *testing.T) {
	allowed := map[move]Status{
		{StatusPending, SideSupplier, ActionCounter}:         StatusSupplierCounter,
		{StatusPending, SideSupplier, ActionAccept}:          StatusSupplierAccept,
		{StatusPending, SideSupplier, ActionReject}:          StatusRejected,
		{StatusPending, SideBuyer, ActionCancel}:             StatusBuyerCancel,
		{StatusSupplierCounter, SideBuyer, ActionAccept}:     StatusBuyerAccept,
		{StatusSupplierCounter, SideBuyer, ActionReject}:     StatusRejected,
		{StatusSupplierCounter, SideSupplier, ActionCounter}: StatusSupplierCounter,
		{StatusSupplierCounter, SideSupplier, ActionReject}:  StatusRejected,
		{StatusSupplierAccept, SideBuyer, ActionAccept}:      StatusBuyerAccept,
		{StatusSupplierAccept, SideBuyer, ActionReject}:      StatusRejected,
		{StatusBuyerAccept, SideSupplier, ActionConvert}:     StatusConverted,
		{StatusPending, SideAdmin, ActionReject}:             StatusRejected,
		{StatusSupplierCounter, SideAdmin, ActionReject}:     StatusRejected,
		{StatusSupplierAccept, SideAdmin, ActionReject}:      StatusRejected,
		{StatusBuyerAccept, SideAdmin, ActionReject}:         StatusRejected,
	}

	for _, from := range allStatuses {
		for _, side := range []Side{SideBuyer, SideSupplier, SideAdmin} {
			for _, action := range allActions {
				to, ok := NextStatus(from, side, action)
				want, wantOK := allowed[move{from, side, action}]
				assert.Equal(t, wantOK, ok, "%s/%s/%s", from, side, action)
				assert.Equal(t, want, to, "%s/%s/%s", from, side, action)
			}
		}
	}
}

func TestTransition_TableThroughAggregate(t *testing.T) {
	actors := map[Side]actor.Actor{SideBuyer: buyer, SideSupplier: supplier, SideAdmin: admin}
	counter := productdomain.MoneyFromInt(40)

	for _, from := range allStatuses {
		for side, a := range actors {
			for _, action := range allActions {
				q := quoteIn(from)
				in := TransitionInput{CounterPrice: &counter}

				entry, err := q.Transition(a, action, in, now.Add(time.Minute))
				want, ok := NextStatus(from, side, action)
				if !ok {
					assert.ErrorIs(t, err, apperr.ErrInvalidTransition, "%s/%s/%s", from, side, action)
					assert.Equal(t, from, q.Status())
					assert.Empty(t, q.DomainEvents())
					continue
				}
				require.NoError(t, err, "%s/%s/%s", from, side, action)
				assert.Equal(t, want, q.Status())
				assert.Equal(t, want, entry.To)
				assert.Equal(t, from, entry.From)
				assert.Equal(t, now.Add(time.Minute), q.UpdatedAt())
			}
		}
	}
}

func TestTransition_TerminalFinality(t *testing.T) {
	for _, status := range []Status{StatusRejected, StatusBuyerCancel, StatusConverted} {
		for _, a := range []actor.Actor{buyer, supplier, admin} {
			for _, action := range allActions {
				_, err := quoteIn(status).Transition(a, action, TransitionInput{}, now)
				assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
				assert.Contains(t, err.Error(), "accepts no further actions")
			}
		}
	}
}

func TestTransition_Forbidden(t *testing.T) {
	stranger := actor.Actor{UserID: "buyer-2", Role: actor.RoleBuyer}
	_, err := quoteIn(StatusPending).Transition(stranger, ActionCancel, TransitionInput{}, now)
	assert.ErrorIs(t, err, ErrNotQuoteParty)

	// right user id, wrong role
	impostor := actor.Actor{UserID: buyer.UserID, Role: actor.RoleSupplier}
	_, err = quoteIn(StatusPending).Transition(impostor, ActionCounter, TransitionInput{}, now)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestTransition_Counter(t *testing.T) {
	q := quoteIn(StatusPending)
	msg := "best we can do"

	_, err := q.Transition(supplier, ActionCounter, TransitionInput{}, now)
	assert.ErrorIs(t, err, ErrInvalidCounterPrice)

	price := productdomain.MoneyFromInt(45)
	_, err = q.Transition(supplier, ActionCounter, TransitionInput{CounterPrice: &price, SupplierMessage: &msg}, now)
	require.NoError(t, err)
	assert.Equal(t, StatusSupplierCounter, q.Status())
	assert.Equal(t, "45", q.CounterPrice().String())
	assert.Equal(t, msg, q.SupplierMessage())

	// identical re-counter is not a new negotiation event
	_, err = q.Transition(supplier, ActionCounter, TransitionInput{CounterPrice: &price}, now)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	lower := productdomain.MoneyFromInt(44)
	_, err = q.Transition(supplier, ActionCounter, TransitionInput{CounterPrice: &lower}, now)
	require.NoError(t, err)
	assert.Equal(t, "44", q.CounterPrice().String())
	assert.Len(t, q.History(), 2)
}

func TestTransition_NotIdempotent(t *testing.T) {
	q := quoteIn(StatusSupplierCounter)

	_, err := q.Transition(buyer, ActionAccept, TransitionInput{}, now)
	require.NoError(t, err)

	_, err = q.Transition(buyer, ActionAccept, TransitionInput{}, now)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestTransition_ConvertEmitsOrderHandoff(t *testing.T) {
	q := quoteIn(StatusBuyerAccept)

	_, err := q.Transition(supplier, ActionConvert, TransitionInput{}, now)
	require.NoError(t, err)

	events := q.DomainEvents()
	require.Len(t, events, 2)
	converted, ok := events[1].(*QuoteConvertedEvent)
	require.True(t, ok)
	assert.Equal(t, "45", converted.UnitPrice.String())
	assert.Equal(t, "450", converted.Total.String())
}

func TestCounterparties(t *testing.T) {
	q := quoteIn(StatusPending)
	assert.Equal(t, []string{"sup-1"}, q.Counterparties(SideBuyer))
	assert.Equal(t, []string{"buyer-1"}, q.Counterparties(SideSupplier))
	assert.Equal(t, []string{"buyer-1", "sup-1"}, q.Counterparties(SideAdmin))
}
