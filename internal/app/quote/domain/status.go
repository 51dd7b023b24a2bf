package domain

import "github.com/light-bringer/rawsy-service/internal/pkg/apperr"

// Status is the negotiation state of a quote.
type Status string

const (
	StatusPending         Status = "pending"
	StatusSupplierCounter Status = "supplier_counter"
	StatusSupplierAccept  Status = "supplier_accept"
	StatusBuyerAccept     Status = "buyer_accept"
	StatusRejected        Status = "rejected"
	StatusBuyerCancel     Status = "buyer_cancel"
	StatusConverted       Status = "converted"
)

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusBuyerCancel, StatusConverted:
		return true
	}
	return false
}

// ParseStatus validates a raw status.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusSupplierCounter, StatusSupplierAccept, StatusBuyerAccept,
		StatusRejected, StatusBuyerCancel, StatusConverted:
		return s, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown quote status %q", raw)
}

// Action is a negotiation move requested by one side.
type Action string

const (
	ActionCounter Action = "counter"
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionCancel  Action = "cancel"
	ActionConvert Action = "convert"
)

// ParseAction validates a raw action.
func ParseAction(raw string) (Action, error) {
	switch a := Action(raw); a {
	case ActionCounter, ActionAccept, ActionReject, ActionCancel, ActionConvert:
		return a, nil
	}
	return "", apperr.Newf(apperr.KindValidation, "unknown quote action %q", raw)
}

// Side is the position of an actor in a negotiation.
type Side string

const (
	SideBuyer    Side = "buyer"
	SideSupplier Side = "supplier"
	SideAdmin    Side = "admin"
)
