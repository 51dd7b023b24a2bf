// Package notify tells the other side of a negotiation what just happened.
package notify

import (
	"context"
	"fmt"
	"strconv"

	notifcontracts "github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	notifdomain "github.com/light-bringer/rawsy-service/internal/app/notification/domain"
	"github.com/light-bringer/rawsy-service/internal/app/quote/domain"
	"github.com/light-bringer/rawsy-service/internal/pkg/sideeffect"
)

// Dispatcher is the delivery side of the notification module.
type Dispatcher interface {
	Dispatch(ctx context.Context, recipient *notifdomain.Recipient, msg notifdomain.Message)
	Persist(ctx context.Context, userID string, msg notifdomain.Message) error
}

// Notifier schedules quote notifications on the side-effect runner so the
// negotiation result never depends on delivery.
type Notifier struct {
	directory  notifcontracts.UserDirectory
	dispatcher Dispatcher
	runner     sideeffect.Runner
}

func NewNotifier(directory notifcontracts.UserDirectory, dispatcher Dispatcher, runner sideeffect.Runner) *Notifier {
	return &Notifier{directory: directory, dispatcher: dispatcher, runner: runner}
}

// Notify schedules one notification of typ per user. The quote is rendered
// now, so later changes to q do not leak into the message. A user the
// directory cannot resolve still gets the stored record, only the push is
// skipped.
func (n *Notifier) Notify(ctx context.Context, q *domain.Quote, typ notifdomain.Type, userIDs ...string) {
	msg := Message(q, typ)
	for _, userID := range userIDs {
		n.runner.Go(ctx, "quote.notify."+string(typ), func(ctx context.Context) error {
			recipient, err := n.directory.GetRecipient(ctx, userID)
			if err != nil {
				_ = n.dispatcher.Persist(ctx, userID, msg)
				return fmt.Errorf("resolve recipient %s, push skipped: %w", userID, err)
			}
			n.dispatcher.Dispatch(ctx, recipient, msg)
			return nil
		})
	}
}

// TypeFor maps the status reached by a transition to the notification sent.
func TypeFor(to domain.Status) notifdomain.Type {
	switch to {
	case domain.StatusSupplierCounter:
		return notifdomain.TypeQuoteCountered
	case domain.StatusSupplierAccept:
		return notifdomain.TypeQuoteSupplierAccepted
	case domain.StatusBuyerAccept:
		return notifdomain.TypeQuoteBuyerAccepted
	case domain.StatusRejected:
		return notifdomain.TypeQuoteRejected
	case domain.StatusBuyerCancel:
		return notifdomain.TypeQuoteCancelled
	case domain.StatusConverted:
		return notifdomain.TypeQuoteConverted
	default:
		return notifdomain.TypeQuoteRequested
	}
}

// Message renders the title, body and string payload for a quote notification.
func Message(q *domain.Quote, typ notifdomain.Type) notifdomain.Message {
	snap := q.Snapshot()
	price := q.AgreedUnitPrice().String()

	var title, body string
	switch typ {
	case notifdomain.TypeQuoteRequested:
		title = "New quote request"
		body = fmt.Sprintf("Quote requested for %d %s of %s", q.Quantity(), snap.Unit, snap.Name)
	case notifdomain.TypeQuoteCountered:
		title = "Quote countered"
		body = fmt.Sprintf("Supplier offered %s per %s for %s", price, snap.Unit, snap.Name)
	case notifdomain.TypeQuoteSupplierAccepted:
		title = "Quote accepted by supplier"
		body = fmt.Sprintf("Your quote for %s was accepted at %s per %s", snap.Name, price, snap.Unit)
	case notifdomain.TypeQuoteBuyerAccepted:
		title = "Quote accepted by buyer"
		body = fmt.Sprintf("The buyer accepted %s per %s for %s", price, snap.Unit, snap.Name)
	case notifdomain.TypeQuoteRejected:
		title = "Quote rejected"
		body = fmt.Sprintf("The quote for %s was rejected", snap.Name)
	case notifdomain.TypeQuoteCancelled:
		title = "Quote cancelled"
		body = fmt.Sprintf("The buyer cancelled the quote for %s", snap.Name)
	case notifdomain.TypeQuoteConverted:
		title = "Quote converted to order"
		body = fmt.Sprintf("Your quote for %d %s of %s is now an order", q.Quantity(), snap.Unit, snap.Name)
	default:
		title = "Quote updated"
		body = fmt.Sprintf("The quote for %s was updated", snap.Name)
	}

	data := map[string]string{
		"quoteId":   q.ID(),
		"productId": q.ProductID(),
		"type":      string(typ),
		"status":    string(q.Status()),
		"quantity":  strconv.FormatInt(q.Quantity(), 10),
	}
	if cp := q.CounterPrice(); cp != nil {
		data["counterPrice"] = cp.String()
	}

	return notifdomain.Message{Type: typ, Title: title, Body: body, Data: data}
}
