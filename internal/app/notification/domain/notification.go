package domain

import (
	"strings"
	"time"
)

// Type is the closed set of notification kinds shown to users.
type Type string

const (
	TypeOrderPlaced           Type = "order_placed"
	TypeOrderConfirmed        Type = "order_confirmed"
	TypeOrderShipped          Type = "order_shipped"
	TypeOrderDelivered        Type = "order_delivered"
	TypeOrderCancelled        Type = "order_cancelled"
	TypePaymentCompleted      Type = "payment_completed"
	TypeQuoteRequested        Type = "quote_requested"
	TypeQuoteCountered        Type = "quote_countered"
	TypeQuoteSupplierAccepted Type = "quote_supplier_accepted"
	TypeQuoteBuyerAccepted    Type = "quote_buyer_accepted"
	TypeQuoteRejected         Type = "quote_rejected"
	TypeQuoteCancelled        Type = "quote_cancelled"
	TypeQuoteConverted        Type = "quote_converted"
	TypeDiscountStarted       Type = "discount_started"
	TypeBackInStock           Type = "back_in_stock"
	TypePriceDrop             Type = "price_drop"
	TypeTicketCreated         Type = "ticket_created"
	TypeTicketUpdated         Type = "ticket_updated"
	TypeMessage               Type = "message"
)

var knownTypes = map[Type]struct{}{
	TypeOrderPlaced: {}, TypeOrderConfirmed: {}, TypeOrderShipped: {}, TypeOrderDelivered: {},
	TypeOrderCancelled: {}, TypePaymentCompleted: {}, TypeQuoteRequested: {}, TypeQuoteCountered: {},
	TypeQuoteSupplierAccepted: {}, TypeQuoteBuyerAccepted: {}, TypeQuoteRejected: {},
	TypeQuoteCancelled: {}, TypeQuoteConverted: {}, TypeDiscountStarted: {}, TypeBackInStock: {},
	TypePriceDrop: {}, TypeTicketCreated: {}, TypeTicketUpdated: {}, TypeMessage: {},
}

// Valid reports whether t belongs to the closed set.
func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// Message is the content of a notification, shared by the stored record and the push.
// Data values are strings because push transports only carry text.
type Message struct {
	Type  Type
	Title string
	Body  string
	Data  map[string]string
}

// Notification is a message addressed to one user.
type Notification struct {
	id        string
	userID    string
	message   Message
	read      bool
	createdAt time.Time
}

// NewNotification creates an unread notification.
func NewNotification(id, userID string, msg Message, now time.Time) (*Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingRecipient
	}
	if !msg.Type.Valid() {
		return nil, ErrUnknownType
	}
	if strings.TrimSpace(msg.Title) == "" {
		return nil, ErrEmptyTitle
	}

	data := make(map[string]string, len(msg.Data))
	for k, v := range msg.Data {
		data[k] = v
	}
	msg.Data = data

	return &Notification{
		id:        id,
		userID:    userID,
		message:   msg,
		createdAt: now,
	}, nil
}

// ReconstructNotification rebuilds a stored notification without validation.
func ReconstructNotification(id, userID string, msg Message, read bool, createdAt time.Time) *Notification {
	return &Notification{id: id, userID: userID, message: msg, read: read, createdAt: createdAt}
}

func (n *Notification) ID() string              { return n.id }
func (n *Notification) UserID() string          { return n.userID }
func (n *Notification) Type() Type              { return n.message.Type }
func (n *Notification) Title() string           { return n.message.Title }
func (n *Notification) Body() string            { return n.message.Body }
func (n *Notification) Data() map[string]string { return n.message.Data }
func (n *Notification) Read() bool              { return n.read }
func (n *Notification) CreatedAt() time.Time    { return n.createdAt }
